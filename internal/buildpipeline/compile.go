// Package buildpipeline orchestrates translate, compile and invoke.
package buildpipeline

import (
	"context"
	"fmt"
	"os"
	"sync"

	"glosa/internal/diag"
	"glosa/internal/source"
	"glosa/internal/toolchain"
	"glosa/internal/trace"
)

// CompileError reports a compilation that ran and failed.
// Diagnostics is the compiler's list, unchanged and in emission order.
type CompileError struct {
	Unit        string
	Diagnostics []diag.Diagnostic
}

func (e *CompileError) Error() string {
	var errs, warns int
	for _, d := range e.Diagnostics {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	return fmt.Sprintf("compilation of %s failed: %d error(s), %d warning(s)", e.Unit, errs, warns)
}

// CompilePipeline submits translated text to a toolchain.Compiler.
type CompilePipeline struct {
	Compiler toolchain.Compiler
	// OutDir receives artefacts. When empty every Compile call gets a fresh
	// temporary directory, removed by Cleanup.
	OutDir string
	// WarningsAsErrors makes any warning block the compilation.
	WarningsAsErrors bool

	mu   sync.Mutex
	temp []string
}

// Compile compiles file as the unit named entryPoint.
//
// On success it returns the unit and any non-blocking diagnostics. When the
// compiler reports failure it returns *CompileError carrying the same
// diagnostics. Any other error means the compiler could not run at all.
func (p *CompilePipeline) Compile(ctx context.Context, file *source.File, entryPoint string) (*toolchain.CompiledUnit, []diag.Diagnostic, error) {
	if p == nil || p.Compiler == nil {
		return nil, nil, fmt.Errorf("missing compiler")
	}
	if file == nil {
		return nil, nil, fmt.Errorf("missing source file")
	}
	if entryPoint == "" {
		return nil, nil, fmt.Errorf("missing entry point")
	}

	outDir, err := p.outDir()
	if err != nil {
		return nil, nil, err
	}

	ctx, step := trace.Start(ctx, trace.LayerStage, "compile", trace.Attrs{Host: p.Compiler.Host(), Unit: entryPoint})
	out, err := p.Compiler.Compile(ctx, toolchain.Request{UnitName: entryPoint, File: file, OutDir: outDir})
	if err != nil {
		step.Finish("tool error")
		return nil, nil, fmt.Errorf("%s compiler: %w", p.Compiler.Host(), err)
	}
	step.Finish(fmt.Sprintf("success=%t diagnostics=%d", out.Success, len(out.Diagnostics)))

	if !out.Success || out.Unit == nil || p.blocking(out.Diagnostics) {
		return nil, out.Diagnostics, &CompileError{Unit: entryPoint, Diagnostics: out.Diagnostics}
	}
	return out.Unit, out.Diagnostics, nil
}

func (p *CompilePipeline) blocking(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diag.SevError || (p.WarningsAsErrors && d.Severity == diag.SevWarning) {
			return true
		}
	}
	return false
}

func (p *CompilePipeline) outDir() (string, error) {
	if p.OutDir != "" {
		if err := os.MkdirAll(p.OutDir, 0o750); err != nil {
			return "", fmt.Errorf("failed to create output dir: %w", err)
		}
		return p.OutDir, nil
	}
	dir, err := os.MkdirTemp("", "glosa-")
	if err != nil {
		return "", fmt.Errorf("failed to create work dir: %w", err)
	}
	p.mu.Lock()
	p.temp = append(p.temp, dir)
	p.mu.Unlock()
	return dir, nil
}

// Cleanup removes temporary directories created by Compile.
// Units compiled into them become unusable.
func (p *CompilePipeline) Cleanup() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	dirs := p.temp
	p.temp = nil
	p.mu.Unlock()
	var firstErr error
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to clean work dir: %w", err)
		}
	}
	return firstErr
}
