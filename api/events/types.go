// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/viewtoken/crowdsale/logdb"
	"github.com/viewtoken/crowdsale/vtk"
)

type Range struct {
	Unit logdb.RangeType `json:"unit"`
	From *uint64         `json:"from,omitempty"`
	To   *uint64         `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventCriteria struct {
	Address *vtk.Address `json:"address"`
	Name    *string      `json:"name"`
	Subject *vtk.Address `json:"subject"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

// LogMeta locates an event in the operation log.
type LogMeta struct {
	TxNumber uint64 `json:"txNumber"`
	TxTime   uint64 `json:"txTime"`
	Op       string `json:"op"`
	Index    uint32 `json:"index"`
}

type FilteredEvent struct {
	Address vtk.Address           `json:"address"`
	Name    string                `json:"name"`
	Subject vtk.Address           `json:"subject"`
	Amount  *math.HexOrDecimal256 `json:"amount,omitempty"`
	Fields  map[string]string     `json:"fields,omitempty"`
	Meta    LogMeta               `json:"meta"`
}

// ConvertEvent converts a stored event to its response form.
func ConvertEvent(e *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Address: e.Address,
		Name:    e.Name,
		Subject: e.Subject,
		Fields:  e.Fields,
		Meta: LogMeta{
			TxNumber: e.TxNumber,
			TxTime:   e.TxTime,
			Op:       e.Op,
			Index:    e.Index,
		},
	}
	if e.Amount != nil {
		fe.Amount = (*math.HexOrDecimal256)(e.Amount)
	}
	return fe
}

func convertEventFilter(f *EventFilter) *logdb.EventFilter {
	out := &logdb.EventFilter{
		Order: f.Order,
	}
	for _, c := range f.CriteriaSet {
		out.CriteriaSet = append(out.CriteriaSet, &logdb.EventCriteria{
			Address: c.Address,
			Name:    c.Name,
			Subject: c.Subject,
		})
	}
	if f.Range != nil {
		r := &logdb.Range{Unit: f.Range.Unit, To: ^uint64(0)}
		if r.Unit == "" {
			r.Unit = logdb.TxNumber
		}
		if f.Range.From != nil {
			r.From = *f.Range.From
		}
		if f.Range.To != nil {
			r.To = *f.Range.To
		}
		out.Range = r
	}
	if f.Options != nil {
		out.Options = &logdb.Options{Offset: f.Options.Offset, Limit: f.Options.Limit}
	}
	return out
}
