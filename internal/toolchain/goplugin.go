package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"glosa/internal/diag"
	"glosa/internal/trace"
)

const pluginModule = "glosaunit"

// GoPlugin builds translated Go code as a plugin (-buildmode=plugin).
// The plugin must be built by the same Go release as the running binary,
// so the generated go.mod pins the current runtime version.
type GoPlugin struct {
	Path string // go binary; PATH lookup when empty
	Env  []string
}

func (g *GoPlugin) Host() string { return HostGo }

// Compile writes a one-file module under <OutDir>/src and builds <OutDir>/<Unit>.so.
func (g *GoPlugin) Compile(ctx context.Context, req Request) (*Output, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	tool, err := lookTool(g.Path, "go")
	if err != nil {
		return nil, err
	}

	srcDir := filepath.Join(req.OutDir, "src")
	if err := os.MkdirAll(srcDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", srcDir, err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "go.mod"), []byte(pluginGoMod()), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write go.mod: %w", err)
	}
	name := SourceName(HostGo, req.UnitName)
	if err := os.WriteFile(filepath.Join(srcDir, name), req.File.Content, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", name, err)
	}

	soPath, err := filepath.Abs(filepath.Join(req.OutDir, req.UnitName+".so"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plugin path: %w", err)
	}
	run, err := runTool(ctx, trace.Attrs{Host: HostGo, Unit: req.UnitName}, srcDir, tool, "build", "-buildmode=plugin", "-o", soPath, ".")
	if err != nil {
		return nil, err
	}

	out := &Output{Diagnostics: ParseGoBuild(run.Output, req.File)}
	out.Success = !run.Failed && !diag.HasErrors(out.Diagnostics)
	if run.Failed && !diag.HasErrors(out.Diagnostics) {
		out.Diagnostics = append(out.Diagnostics, toolFailure("go build", run.Output))
	}
	if out.Success {
		out.Unit = &CompiledUnit{Name: req.UnitName, Host: HostGo, Path: soPath}
	}
	return out, nil
}

func pluginGoMod() string {
	var b strings.Builder
	b.WriteString("module " + pluginModule + "\n")
	if v, ok := strings.CutPrefix(runtime.Version(), "go"); ok && !strings.Contains(v, " ") {
		b.WriteString("\ngo " + v + "\n")
	}
	return b.String()
}
