package launch

import (
	"context"
	"fmt"
	"reflect"
	"runtime/debug"
)

// call runs an in-process entry point. Accepted shapes, and pointers to
// them as plugin.Lookup returns for variables:
//
//	func()
//	func([]string)
//	func() error
//	func([]string) error
//	func(context.Context, []string) error
//
// A panic is recovered and reported as RuntimeFailure.
func call(ctx context.Context, entry string, fn any, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = invocationErr(RuntimeFailure, entry, fmt.Errorf("panic: %v\n%s", r, debug.Stack()))
		}
	}()

	switch f := fn.(type) {
	case *func():
		fn = derefFunc(f)
	case *func([]string):
		fn = derefFunc(f)
	case *func() error:
		fn = derefFunc(f)
	case *func([]string) error:
		fn = derefFunc(f)
	case *func(context.Context, []string) error:
		fn = derefFunc(f)
	}

	var run func() error
	switch f := fn.(type) {
	case nil:
		return invocationErr(BadSignature, entry, fmt.Errorf("entry point is nil"))
	case func():
		run = func() error { f(); return nil }
	case func([]string):
		run = func() error { f(args); return nil }
	case func() error:
		run = f
	case func([]string) error:
		run = func() error { return f(args) }
	case func(context.Context, []string) error:
		run = func() error { return f(ctx, args) }
	default:
		return invocationErr(BadSignature, entry, fmt.Errorf("cannot call %T", fn))
	}
	if reflect.ValueOf(fn).IsNil() {
		return invocationErr(BadSignature, entry, fmt.Errorf("entry point %T is nil", fn))
	}
	if runErr := run(); runErr != nil {
		return invocationErr(RuntimeFailure, entry, runErr)
	}
	return nil
}

// derefFunc returns the function p points to, or untyped nil.
func derefFunc[F any](p *F) any {
	if p == nil {
		return nil
	}
	return *p
}
