// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the errors a builtin contract call aborts with.
// Any of them rolls back every state change made by the call.
package reverts

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

// Kind classifies a revert.
type Kind uint8

const (
	InvalidSchedule Kind = iota + 1
	Unauthorized
	ZeroValue
	InvalidBeneficiary
	NotOpen
	NotWhitelisted
	CapExceeded
	InvalidState
	NothingToRefund
	NotClosed
	AlreadyFinalized
	MintFailed
	InsufficientFunds
	Paused
	Locked
	NothingToRelease
	InvalidConfig
)

var kindNames = map[Kind]string{
	InvalidSchedule:    "InvalidSchedule",
	Unauthorized:       "Unauthorized",
	ZeroValue:          "ZeroValue",
	InvalidBeneficiary: "InvalidBeneficiary",
	NotOpen:            "NotOpen",
	NotWhitelisted:     "NotWhitelisted",
	CapExceeded:        "CapExceeded",
	InvalidState:       "InvalidState",
	NothingToRefund:    "NothingToRefund",
	NotClosed:          "NotClosed",
	AlreadyFinalized:   "AlreadyFinalized",
	MintFailed:         "MintFailed",
	InsufficientFunds:  "InsufficientFunds",
	Paused:             "Paused",
	Locked:             "Locked",
	NothingToRelease:   "NothingToRelease",
	InvalidConfig:      "InvalidConfig",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Error is a revert with a kind and a human readable reason.
type Error struct {
	kind    Kind
	message string
	cause   error
}

// New creates a revert error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Newf creates a revert error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Wrap creates a revert error of the given kind caused by err.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{kind: kind, message: message, cause: err}
}

func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Message() string {
	return e.message
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports kind equality, so errors.Is(err, reverts.ErrNotOpen) holds for
// every NotOpen revert whatever its message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || t == nil {
		return false
	}
	return t.kind == e.kind
}

// Bytes returns the ABI encoding of Error(string) with the error message.
func (e *Error) Bytes() []byte {
	if e == nil {
		return nil
	}

	// 4-byte selector for Error(string)
	selector, _ := hex.DecodeString("08c379a0")
	msgBytes := []byte(e.Error())
	padded := ((len(msgBytes) + 31) / 32) * 32

	encoded := make([]byte, 0, 4+32+32+padded)
	encoded = append(encoded, selector...)

	offset := make([]byte, 32)
	binary.BigEndian.PutUint64(offset[24:], 32)
	encoded = append(encoded, offset...)

	length := make([]byte, 32)
	binary.BigEndian.PutUint64(length[24:], uint64(len(msgBytes)))
	encoded = append(encoded, length...)

	data := make([]byte, padded)
	copy(data, msgBytes)
	return append(encoded, data...)
}

// Sentinels for errors.Is matching.
var (
	ErrInvalidSchedule    = New(InvalidSchedule, "invalid schedule")
	ErrUnauthorized       = New(Unauthorized, "unauthorized")
	ErrZeroValue          = New(ZeroValue, "zero value")
	ErrInvalidBeneficiary = New(InvalidBeneficiary, "invalid beneficiary")
	ErrNotOpen            = New(NotOpen, "sale not open")
	ErrNotWhitelisted     = New(NotWhitelisted, "not whitelisted")
	ErrCapExceeded        = New(CapExceeded, "cap exceeded")
	ErrInvalidState       = New(InvalidState, "invalid state")
	ErrNothingToRefund    = New(NothingToRefund, "nothing to refund")
	ErrNotClosed          = New(NotClosed, "sale not closed")
	ErrAlreadyFinalized   = New(AlreadyFinalized, "already finalized")
	ErrMintFailed         = New(MintFailed, "mint failed")
	ErrInsufficientFunds  = New(InsufficientFunds, "insufficient funds")
	ErrPaused             = New(Paused, "token paused")
	ErrLocked             = New(Locked, "tokens locked")
	ErrNothingToRelease   = New(NothingToRelease, "nothing to release")
	ErrInvalidConfig      = New(InvalidConfig, "invalid config")
)

// KindOf returns the kind of a revert error found in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.kind, true
	}
	return 0, false
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	_, ok = KindOf(e)
	return ok
}
