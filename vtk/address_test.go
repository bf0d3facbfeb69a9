// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vtk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"with prefix", "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", ""},
		{"upper prefix", "0X7567d83b7b8d80addcb281a71d54fc7b3364ffed", ""},
		{"without prefix", "7567d83b7b8d80addcb281a71d54fc7b3364ffed", ""},
		{"bad prefix", "1x7567d83b7b8d80addcb281a71d54fc7b3364ffed", "invalid prefix"},
		{"short", "0x7567", "invalid length"},
		{"bad hex", "0x7567d83b7b8d80addcb281a71d54fc7b3364ffzz", "encoding/hex: invalid byte: U+007A 'z'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := ParseAddress(tt.input)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("wallet"))

	data, err := json.Marshal(&addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"0x12"`), &decoded))
}

func TestCreateContractAddress(t *testing.T) {
	creator := BytesToAddress([]byte("deployer"))

	a0 := CreateContractAddress(creator, 0)
	a1 := CreateContractAddress(creator, 1)

	assert.False(t, a0.IsZero())
	assert.NotEqual(t, a0, a1)
	assert.Equal(t, a0, CreateContractAddress(creator, 0))
}

func TestBlake2b(t *testing.T) {
	assert.Equal(t, Blake2b([]byte("ab")), Blake2b([]byte("a"), []byte("b")))
	assert.NotEqual(t, Blake2b([]byte("a")), Keccak256([]byte("a")))
}

func TestEtherOf(t *testing.T) {
	assert.Equal(t, "26000000000000000000", EtherOf(26).String())
	assert.Equal(t, int64(0), Copy(nil).Int64())
}
