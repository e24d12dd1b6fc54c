package launch

import (
	"context"
	"fmt"
	"os"
	"plugin"

	"glosa/internal/toolchain"
	"glosa/internal/trace"
)

// PluginRunner calls an exported function of a Go plugin built by toolchain.GoPlugin.
// A plugin stays loaded for the life of the process.
type PluginRunner struct{}

func (PluginRunner) Invoke(ctx context.Context, unit *toolchain.CompiledUnit, entry string, args []string) error {
	if unit == nil {
		return fmt.Errorf("missing compiled unit")
	}
	if unit.Host != toolchain.HostGo {
		return fmt.Errorf("plugin runner cannot run %s units", unit.Host)
	}
	if _, err := os.Stat(unit.Path); err != nil {
		return fmt.Errorf("plugin %s: %w", unit.Path, err)
	}
	if !exported(entry) {
		return invocationErr(AccessDenied, entry, fmt.Errorf("%q is not exported", entry))
	}

	_, step := trace.Start(ctx, trace.LayerTool, "plugin.Open", trace.Attrs{Host: unit.Host, Unit: unit.Name, Entry: entry})
	p, err := plugin.Open(unit.Path)
	if err != nil {
		step.Finish("error")
	} else {
		step.Finish("ok")
	}
	if err != nil {
		return fmt.Errorf("failed to open plugin: %w", err)
	}
	sym, err := p.Lookup(entry)
	if err != nil {
		return invocationErr(NotFound, entry, err)
	}
	return call(ctx, entry, sym, args)
}
