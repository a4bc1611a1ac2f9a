// Copyright 2025 Certen Protocol
//
// Package verifyerr defines the stable error taxonomy shared by the seal
// codec, the Groth16 and mock verifiers, and the verifier router. Every
// verification and registry-lifecycle error the stack returns carries one
// of these codes so callers can switch on identity instead of matching
// strings; the router's ErrNotOwner access-control sentinel does not.
package verifyerr

import (
	"errors"
	"fmt"
)

// Code is the stable numeric identity of a verification failure. Values
// must never be renumbered once published: callers persist and compare
// against them.
type Code uint32

const (
	// InvalidProof means the cryptographic verification (pairing check or
	// mock digest equality) failed.
	InvalidProof Code = 0
	// MalformedPublicInputs means a public input derived from a claim
	// digest fell outside the scalar field.
	MalformedPublicInputs Code = 1
	// MalformedSeal means the seal bytes do not match the expected layout
	// for the target proof system.
	MalformedSeal Code = 2
	// InvalidSelector means the seal's selector prefix does not match the
	// verifier (or router entry) it was routed to.
	InvalidSelector Code = 3
	// AlreadyInitialized means a verifier or router was constructed twice.
	AlreadyInitialized Code = 4
	// SelectorRemoved means the selector was tombstoned and can never be
	// reassigned.
	SelectorRemoved Code = 5
	// SelectorInUse means the selector is already bound to an active
	// verifier.
	SelectorInUse Code = 6
	// SelectorUnknown means the selector has never been registered.
	SelectorUnknown Code = 7
)

// String renders the code's name for logging and error messages.
func (c Code) String() string {
	switch c {
	case InvalidProof:
		return "InvalidProof"
	case MalformedPublicInputs:
		return "MalformedPublicInputs"
	case MalformedSeal:
		return "MalformedSeal"
	case InvalidSelector:
		return "InvalidSelector"
	case AlreadyInitialized:
		return "AlreadyInitialized"
	case SelectorRemoved:
		return "SelectorRemoved"
	case SelectorInUse:
		return "SelectorInUse"
	case SelectorUnknown:
		return "SelectorUnknown"
	default:
		return fmt.Sprintf("Code(%d)", uint32(c))
	}
}

// Error is the concrete error type returned throughout the verification
// stack. It never wraps a generic error: every failure path constructs one
// of these with the relevant Code so the caller can recover it with As.
type Error struct {
	Code Code
	// Msg adds call-site context (e.g. which selector, which field).
	// Never part of the error's identity — only Code is.
	Msg string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// New constructs an *Error for the given code with optional context.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Newf is New with fmt.Sprintf-style formatting for Msg.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err carries the given Code, unwrapping through any
// number of wrapping layers.
func Is(err error, code Code) bool {
	var ve *Error
	if !errors.As(err, &ve) {
		return false
	}
	return ve.Code == code
}
