// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/viewtoken/crowdsale/cache"
	"github.com/viewtoken/crowdsale/kv"
	"github.com/viewtoken/crowdsale/stackedmap"
	"github.com/viewtoken/crowdsale/vtk"
)

const (
	storageBucket = kv.Bucket("s")
	balanceBucket = kv.Bucket("b")

	defaultCacheSize = 4096
)

// ErrInsufficientBalance is returned by Transfer when the sender can not cover the amount.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr vtk.Address
	key  vtk.Bytes32
}

type balanceKey vtk.Address

// State manages balances, contract storage and emitted logs.
type State struct {
	store kv.Store
	cache *cache.LRU
	sm    *stackedmap.StackedMap[any, any]
	logs  []*Log
	marks map[int]int // checkpoint revision => len(logs)
}

// New create state object over the given store.
func New(store kv.Store) *State {
	c, _ := cache.NewLRU(defaultCacheSize)
	s := &State{
		store: store,
		cache: c,
		marks: make(map[int]int),
	}
	s.sm = stackedmap.New(s.load)
	return s
}

func persistKey(key any) (kv.Bucket, []byte) {
	switch k := key.(type) {
	case storageKey:
		return storageBucket, append(k.addr.Bytes(), k.key.Bytes()...)
	case balanceKey:
		return balanceBucket, vtk.Address(k).Bytes()
	}
	panic(fmt.Errorf("unexpected key type %T", key))
}

// load implements stackedmap.MapGetter, reading committed values.
func (s *State) load(key any) (any, bool, error) {
	bucket, k := persistKey(key)
	raw, err := s.cache.GetOrLoad(string(bucket)+string(k), func(any) (any, error) {
		data, err := bucket.NewGetter(s.store).Get(k)
		if err != nil {
			if s.store.IsNotFound(err) {
				return []byte(nil), nil
			}
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return nil, false, err
	}
	data := raw.([]byte)

	switch key.(type) {
	case storageKey:
		return rlp.RawValue(data), true, nil
	default:
		bal := new(big.Int)
		if len(data) > 0 {
			if err := rlp.DecodeBytes(data, bal); err != nil {
				return nil, false, err
			}
		}
		return bal, true, nil
	}
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr vtk.Address) (*big.Int, error) {
	v, _, err := s.sm.Get(balanceKey(addr))
	if err != nil {
		return nil, &Error{err}
	}
	return new(big.Int).Set(v.(*big.Int)), nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr vtk.Address, balance *big.Int) {
	s.sm.Put(balanceKey(addr), new(big.Int).Set(balance))
}

// AddBalance adds amount to the balance of addr.
func (s *State) AddBalance(addr vtk.Address, amount *big.Int) error {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	s.SetBalance(addr, bal.Add(bal, amount))
	return nil
}

// SubBalance subtracts amount from the balance of addr.
// It returns false without touching the balance if the balance is insufficient.
func (s *State) SubBalance(addr vtk.Address, amount *big.Int) (bool, error) {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return false, err
	}
	if bal.Cmp(amount) < 0 {
		return false, nil
	}
	s.SetBalance(addr, bal.Sub(bal, amount))
	return true, nil
}

// Transfer moves amount from one account to another.
func (s *State) Transfer(from, to vtk.Address, amount *big.Int) error {
	ok, err := s.SubBalance(from, amount)
	if err != nil {
		return err
	}
	if !ok {
		return errors.WithMessagef(ErrInsufficientBalance, "transfer from %v", from)
	}
	return s.AddBalance(to, amount)
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr vtk.Address, key vtk.Bytes32) (vtk.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return vtk.Bytes32{}, err
	}
	if len(raw) == 0 {
		return vtk.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return vtk.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// customized storage value, return hash of raw data
		return vtk.Blake2b(raw), nil
	}
	return vtk.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr vtk.Address, key, value vtk.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr vtk.Address, key vtk.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr vtk.Address, key vtk.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr vtk.Address, key vtk.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr vtk.Address, key vtk.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// AddLog appends a log emitted by a contract.
func (s *State) AddLog(log *Log) {
	s.logs = append(s.logs, log)
}

// Logs returns logs emitted since the last commit.
func (s *State) Logs() []*Log {
	return append([]*Log(nil), s.logs...)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	rev := s.sm.Push()
	s.marks[rev] = len(s.logs)
	return rev
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if n, ok := s.marks[revision]; ok {
		s.logs = s.logs[:n]
	}
	for rev := range s.marks {
		if rev >= revision {
			delete(s.marks, rev)
		}
	}
}

// Commit writes all changes since the last commit into the store atomically,
// and drops the journal and the collected logs. On error the journal and logs
// are kept, so the caller can still revert to a checkpoint.
func (s *State) Commit() error {
	latest := make(map[any]any)
	var order []any
	s.sm.Journal(func(k, v any) bool {
		if _, ok := latest[k]; !ok {
			order = append(order, k)
		}
		latest[k] = v
		return true
	})

	bulk := s.store.Bulk()
	encoded := make(map[string][]byte, len(order))
	for _, k := range order {
		bucket, key := persistKey(k)
		var data []byte
		switch v := latest[k].(type) {
		case rlp.RawValue:
			data = v
		case *big.Int:
			if v.Sign() != 0 {
				enc, err := rlp.EncodeToBytes(v)
				if err != nil {
					return &Error{err}
				}
				data = enc
			}
		}
		p := bucket.NewPutter(bulk)
		var err error
		if len(data) == 0 {
			err = p.Delete(key)
		} else {
			err = p.Put(key, data)
		}
		if err != nil {
			return &Error{err}
		}
		encoded[string(bucket)+string(key)] = data
	}
	if err := bulk.Write(); err != nil {
		return &Error{errors.Wrap(err, "commit")}
	}
	for k, data := range encoded {
		s.cache.Add(k, data)
	}

	s.sm = stackedmap.New(s.load)
	s.logs = nil
	s.marks = make(map[int]int)
	return nil
}
