package buildpipeline

import (
	"context"
	"fmt"

	"glosa/internal/launch"
	"glosa/internal/toolchain"
	"glosa/internal/trace"
)

// Launcher runs the entry point of a compiled unit through a launch.Runner.
type Launcher struct {
	Runner launch.Runner
}

// Invoke passes args to entryPoint. Failures of the program come back as
// *launch.InvocationError.
func (l *Launcher) Invoke(ctx context.Context, unit *toolchain.CompiledUnit, entryPoint string, args []string) error {
	if l == nil || l.Runner == nil {
		return fmt.Errorf("missing runner")
	}
	if unit == nil {
		return fmt.Errorf("missing compiled unit")
	}
	ctx, step := trace.Start(ctx, trace.LayerStage, "invoke", trace.Attrs{Host: unit.Host, Unit: unit.Name, Entry: entryPoint})
	err := l.Runner.Invoke(ctx, unit, entryPoint, args)
	if err != nil {
		step.Finish(err.Error())
		return err
	}
	step.Finish("ok")
	return nil
}
