// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viewtoken/crowdsale/stackedmap"
)

func TestStackedMap(t *testing.T) {
	assert := assert.New(t)
	src := map[string]string{"foo": "bar"}

	sm := stackedmap.New(func(key string) (string, bool, error) {
		v, r := src[key]
		return v, r, nil
	})

	tests := []struct {
		f        func()
		depth    int
		putKey   string
		putValue string
		getKey   string
		want     string
	}{
		{func() {}, 1, "", "", "foo", "bar"},
		{func() { sm.Push() }, 2, "foo", "baz", "foo", "baz"},
		{func() {}, 2, "foo", "baz1", "foo", "baz1"},
		{func() { sm.Push() }, 3, "foo", "qux", "foo", "qux"},
		{func() { sm.Pop() }, 2, "", "", "foo", "baz1"},
		{func() { sm.Pop() }, 1, "", "", "foo", "bar"},
		{func() { sm.Push(); sm.Push() }, 3, "", "", "", ""},
		{func() { sm.PopTo(1) }, 1, "", "", "foo", "bar"},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(test.depth, sm.Depth())
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			v, ok, err := sm.Get(test.getKey)
			assert.NoError(err)
			assert.True(ok)
			assert.Equal(test.want, v)
		}
	}
}

func TestStackedMapPuts(t *testing.T) {
	assert := assert.New(t)
	sm := stackedmap.New(func(string) (string, bool, error) {
		return "", false, nil
	})

	kvs := []struct {
		k, v string
	}{
		{"a", "b"},
		{"a", "b"},
		{"a1", "b1"},
		{"a2", "b2"},
		{"a3", "b3"},
		{"a4", "b4"},
	}

	for _, kv := range kvs {
		sm.Push()
		sm.Put(kv.k, kv.v)
	}

	i := 0
	sm.Journal(func(k, v string) bool {
		assert.Equal(kvs[i].k, k)
		assert.Equal(kvs[i].v, v)
		i++
		return true
	})
	assert.Equal(len(kvs), i, "Journal should traverse all puts")

	sm.PopTo(3)
	count := 0
	sm.Journal(func(string, string) bool {
		count++
		return true
	})
	assert.Equal(2, count)
}

func TestStackedMapRepeatedPutSameLevel(t *testing.T) {
	sm := stackedmap.New(func(string) (int, bool, error) {
		return 0, false, nil
	})

	rev := sm.Push()
	sm.Put("k", 1)
	sm.Put("k", 2)
	v, _, _ := sm.Get("k")
	assert.Equal(t, 2, v)

	sm.PopTo(rev)
	v, ok, _ := sm.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, v)
}

func TestStackedMapSourceError(t *testing.T) {
	sm := stackedmap.New(func(string) (int, bool, error) {
		return 0, false, errors.New("boom")
	})

	_, _, err := sm.Get("missing")
	assert.EqualError(t, err, "boom")
}
