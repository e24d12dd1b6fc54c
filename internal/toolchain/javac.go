package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"glosa/internal/diag"
	"glosa/internal/source"
	"glosa/internal/trace"
)

// Javac compiles a single Java class with the JDK compiler.
type Javac struct {
	Path string   // javac binary; PATH lookup when empty
	Args []string // extra flags, e.g. -Xlint:all
}

func (j *Javac) Host() string { return HostJava }

// Compile writes the unit under <OutDir>/src (package path from a qualified
// unit name) and compiles it into <OutDir>/classes.
func (j *Javac) Compile(ctx context.Context, req Request) (*Output, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	tool, err := lookTool(j.Path, "javac")
	if err != nil {
		return nil, err
	}

	srcDir := filepath.Join(req.OutDir, "src")
	classDir := filepath.Join(req.OutDir, "classes")
	for _, dir := range []string{srcDir, classDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	name := filepath.FromSlash(SourceName(HostJava, req.UnitName))
	srcPath := filepath.Join(srcDir, name)
	if err := os.MkdirAll(filepath.Dir(srcPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(srcPath), err)
	}
	if err := os.WriteFile(srcPath, req.File.Content, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", name, err)
	}

	args := []string{"-encoding", "UTF-8", "-d", classDir}
	args = append(args, j.Args...)
	args = append(args, name)
	run, err := runTool(ctx, trace.Attrs{Host: HostJava, Unit: req.UnitName}, srcDir, tool, args...)
	if err != nil {
		return nil, err
	}

	out := &Output{Diagnostics: ParseJavac(run.Output, req.File)}
	out.Success = !run.Failed && !diag.HasErrors(out.Diagnostics)
	if run.Failed && !diag.HasErrors(out.Diagnostics) {
		out.Diagnostics = append(out.Diagnostics, toolFailure("javac", run.Output))
	}
	if out.Success {
		out.Unit = &CompiledUnit{Name: req.UnitName, Host: HostJava, Path: classDir}
	}
	return out, nil
}

// toolFailure keeps a failed run visible when the output had no error lines.
func toolFailure(tool, output string) diag.Diagnostic {
	msg := strings.TrimSpace(output)
	if msg == "" {
		msg = tool + " exited with a failure status"
	}
	return diag.NewError(diag.CompTool, source.NoSpan, msg)
}
