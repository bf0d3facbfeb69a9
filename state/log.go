// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/viewtoken/crowdsale/vtk"
)

// Log is an event emitted by a contract.
type Log struct {
	Address vtk.Address       // emitting contract
	Name    string            // event name, e.g. TokensPurchased
	Subject vtk.Address       // the account the event is about
	Amount  *big.Int          // primary amount, nil if none
	Fields  map[string]string // secondary attributes
}

// NewLog creates a log, fields are given as key/value pairs.
func NewLog(addr vtk.Address, name string, subject vtk.Address, amount *big.Int, fields ...string) *Log {
	l := &Log{
		Address: addr,
		Name:    name,
		Subject: subject,
	}
	if amount != nil {
		l.Amount = new(big.Int).Set(amount)
	}
	if len(fields) > 0 {
		l.Fields = make(map[string]string, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			l.Fields[fields[i]] = fields[i+1]
		}
	}
	return l
}
