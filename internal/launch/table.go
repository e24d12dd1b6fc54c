package launch

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"glosa/internal/toolchain"
)

// Table is an explicit registry of in-process entry points.
// It stands in for reflection-based lookup: a unit can only call what was registered.
type Table struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{entries: make(map[string]any)}
}

// Register binds name to fn. fn must have one of the shapes accepted by Invoke.
func (t *Table) Register(name string, fn any) error {
	if name == "" {
		return fmt.Errorf("empty entry point name")
	}
	if fn == nil {
		return fmt.Errorf("nil entry point %q", name)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, dup := t.entries[name]; dup {
		return fmt.Errorf("entry point %q already registered", name)
	}
	t.entries[name] = fn
	return nil
}

// Names returns registered entry points in sorted order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke calls the registered entry. unit is only used for error context.
func (t *Table) Invoke(ctx context.Context, unit *toolchain.CompiledUnit, entry string, args []string) error {
	t.mu.RLock()
	fn, ok := t.entries[entry]
	t.mu.RUnlock()
	if !ok {
		var err error
		if unit != nil {
			err = fmt.Errorf("no entry registered in unit %s", unit.Name)
		}
		return invocationErr(NotFound, entry, err)
	}
	if !exported(entry) {
		return invocationErr(AccessDenied, entry, nil)
	}
	return call(ctx, entry, fn, args)
}
