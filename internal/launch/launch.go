// Package launch runs the entry point of a compiled unit.
package launch

import (
	"context"
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"glosa/internal/toolchain"
)

// Runner invokes entry in unit with args.
//
// Every failure that belongs to the program itself is returned as
// *InvocationError. Other errors mean the runner could not start at all.
type Runner interface {
	Invoke(ctx context.Context, unit *toolchain.CompiledUnit, entry string, args []string) error
}

// Kind classifies an invocation failure.
type Kind uint8

const (
	// NotFound: the entry point does not exist in the unit.
	NotFound Kind = iota + 1
	// AccessDenied: the entry point exists but is not accessible.
	AccessDenied
	// BadSignature: the entry point has a shape the runner cannot call.
	BadSignature
	// RuntimeFailure: the entry point ran and failed.
	RuntimeFailure
)

var (
	ErrNotFound       = errors.New("entry point not found")
	ErrAccessDenied   = errors.New("entry point not accessible")
	ErrBadSignature   = errors.New("entry point has unsupported signature")
	ErrRuntimeFailure = errors.New("entry point failed")
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not-found"
	case AccessDenied:
		return "access-denied"
	case BadSignature:
		return "bad-signature"
	case RuntimeFailure:
		return "runtime-failure"
	}
	return "unknown"
}

func (k Kind) sentinel() error {
	switch k {
	case NotFound:
		return ErrNotFound
	case AccessDenied:
		return ErrAccessDenied
	case BadSignature:
		return ErrBadSignature
	case RuntimeFailure:
		return ErrRuntimeFailure
	}
	return nil
}

// InvocationError reports a failure of the invoked program.
type InvocationError struct {
	Kind  Kind
	Entry string
	Err   error // underlying cause, may be nil
}

func (e *InvocationError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Entry, e.Kind.sentinel())
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvocationError) Unwrap() error { return e.Err }

// Is matches the sentinel of e.Kind, so errors.Is(err, ErrNotFound) works.
func (e *InvocationError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func invocationErr(kind Kind, entry string, err error) *InvocationError {
	return &InvocationError{Kind: kind, Entry: entry, Err: err}
}

// exported mirrors Go's export rule, used by the in-process runners.
func exported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
