// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package crowdsale

import (
	"math/big"

	"github.com/viewtoken/crowdsale/builtin/stage"
	"github.com/viewtoken/crowdsale/vtk"
)

// SetCrowdsaleStage switches the sale to s at the rate configured for it.
// Only admins may call it.
func (c *Crowdsale) SetCrowdsaleStage(caller vtk.Address, s stage.Stage) error {
	return c.atomic(func() error {
		return c.stages.SetConfiguredStage(caller, s)
	})
}

// AddAddressesToWhitelist whitelists investors. Only admins may call it.
func (c *Crowdsale) AddAddressesToWhitelist(caller vtk.Address, addresses []vtk.Address) (int, error) {
	var added int
	err := c.atomic(func() (err error) {
		added, err = c.whitelist.Add(caller, addresses)
		return
	})
	return added, err
}

// SetStageRate switches the sale to s with an explicit rate. Only admins may call it.
func (c *Crowdsale) SetStageRate(caller vtk.Address, s stage.Stage, rate *big.Int) error {
	return c.atomic(func() error {
		return c.stages.SetStage(caller, s, rate)
	})
}
