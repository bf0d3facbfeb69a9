// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket provides logical bucket for kv store.
type Bucket string

func (b Bucket) withPrefix(key []byte, fn func(k []byte)) {
	buf := bufPool.Get().(*buf)
	defer bufPool.Put(buf)
	buf.k = append(append(buf.k[:0], b...), key...)
	fn(buf.k)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
	}{
		func(key []byte) (val []byte, err error) {
			b.withPrefix(key, func(k []byte) { val, err = src.Get(k) })
			return
		},
		func(key []byte) (has bool, err error) {
			b.withPrefix(key, func(k []byte) { has, err = src.Has(k) })
			return
		},
		src.IsNotFound,
	}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &struct {
		PutFunc
		DeleteFunc
	}{
		func(key, val []byte) (err error) {
			// the underlying store copies the key
			b.withPrefix(key, func(k []byte) { err = src.Put(k, val) })
			return
		},
		func(key []byte) (err error) {
			b.withPrefix(key, func(k []byte) { err = src.Delete(k) })
			return
		},
	}
}

// NewBulk creates a bucket bulk from the source bulk.
func (b Bucket) NewBulk(src Bulk) Bulk {
	putter := b.NewPutter(src)
	return &struct {
		PutFunc
		DeleteFunc
		LenFunc
		WriteFunc
	}{
		putter.Put,
		putter.Delete,
		src.Len,
		src.Write,
	}
}

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src Store) Store {
	getter := b.NewGetter(src)
	putter := b.NewPutter(src)
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
		PutFunc
		DeleteFunc
		BulkFunc
		IterateFunc
	}{
		getter.Get,
		getter.Has,
		getter.IsNotFound,
		putter.Put,
		putter.Delete,
		func() Bulk { return b.NewBulk(src.Bulk()) },
		func(r Range) Iterator {
			r.Start = append([]byte(b), r.Start...)
			if len(r.Limit) == 0 {
				r.Limit = util.BytesPrefix([]byte(b)).Limit
			} else {
				r.Limit = append([]byte(b), r.Limit...)
			}
			iter := src.Iterate(r)
			return &struct {
				NextFunc
				KeyFunc
				ValueFunc
				ReleaseFunc
				ErrorFunc
			}{
				iter.Next,
				// strip the bucket
				func() []byte { return iter.Key()[len(b):] },
				iter.Value,
				iter.Release,
				iter.Error,
			}
		},
	}
}

type buf struct {
	k []byte
}

var bufPool = sync.Pool{
	New: func() any {
		return &buf{}
	},
}
