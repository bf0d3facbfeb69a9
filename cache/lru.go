// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// LRU a LRU cache extends golang-lru with load-through and hit statistics.
type LRU struct {
	*lru.Cache
	hit, miss atomic.Int64
}

// NewLRU create a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU(maxSize int) (*LRU, error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{Cache: cache}, nil
}

// Loader defines loader to load value.
type Loader func(key any) (any, error)

// GetOrLoad first try to get from cache, do load if missed.
func (l *LRU) GetOrLoad(key any, loader Loader) (any, error) {
	if v, ok := l.Get(key); ok {
		l.hit.Add(1)
		return v, nil
	}
	l.miss.Add(1)
	v, err := loader(key)
	if err != nil {
		return nil, err
	}

	l.Add(key, v)
	return v, nil
}

// Stats returns the number of hits and misses of GetOrLoad.
func (l *LRU) Stats() (hit, miss int64) {
	return l.hit.Load(), l.miss.Load()
}
