// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual(t *testing.T) {
	c := NewManual(100)
	assert.Equal(t, uint64(100), c.Now())
	c.Advance(50)
	assert.Equal(t, uint64(150), c.Now())
	c.Set(10)
	assert.Equal(t, uint64(10), c.Now())
}

func TestSystemAndFunc(t *testing.T) {
	assert.InDelta(t, time.Now().Unix(), int64(System{}.Now()), 2)
	assert.Equal(t, uint64(7), Func(func() uint64 { return 7 }).Now())
}

func TestCheckDrift(t *testing.T) {
	offset, err := CheckDrift(func(string) (time.Duration, error) {
		return -3 * time.Second, nil
	}, "pool.ntp.org", time.Second)
	assert.NoError(t, err)
	assert.Equal(t, -3*time.Second, offset)

	_, err = CheckDrift(func(string) (time.Duration, error) {
		return 0, errors.New("unreachable")
	}, "pool.ntp.org", time.Second)
	assert.EqualError(t, err, "unreachable")
}
