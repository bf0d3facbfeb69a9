// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

// Event is a state.Log as stored by the db.
type Event struct {
	TxNumber uint64
	Index    uint32
	TxTime   uint64
	Op       string // operation that emitted the event
	Address  vtk.Address
	Name     string
	Subject  vtk.Address
	Amount   *big.Int
	Fields   map[string]string
}

func newEvent(txNumber, txTime uint64, op string, index uint32, log *state.Log) *Event {
	return &Event{
		TxNumber: txNumber,
		Index:    index,
		TxTime:   txTime,
		Op:       op,
		Address:  log.Address,
		Name:     log.Name,
		Subject:  log.Subject,
		Amount:   log.Amount,
		Fields:   log.Fields,
	}
}

type RangeType string

const (
	TxNumber RangeType = "tx"
	Time     RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is inclusive on both ends. To below From means no upper bound.
type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventCriteria matches events on every non-nil field.
type EventCriteria struct {
	Address *vtk.Address
	Name    *string
	Subject *vtk.Address
}

// EventFilter selects events matching any of the criteria.
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order
}
