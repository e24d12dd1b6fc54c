// Package toolchain wraps host-language compilers behind one interface.
//
// A Compiler receives the translated text of a single unit and turns it into
// a CompiledUnit, returning every diagnostic the underlying tool printed in
// the order it printed them.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"glosa/internal/diag"
	"glosa/internal/source"
)

// Host names understood by the toolchain.
const (
	HostJava = "java"
	HostGo   = "go"
)

// ErrToolNotFound is wrapped when the compiler binary cannot be located.
var ErrToolNotFound = errors.New("compiler tool not found")

// Request describes one compilation.
type Request struct {
	// UnitName is the compilation unit, e.g. the Java class or Go plugin symbol.
	UnitName string
	// File holds the translated text. Diagnostic spans point into it.
	File *source.File
	// OutDir receives sources and artefacts. Created when missing.
	OutDir string
}

// CompiledUnit is an opaque handle to a successful compilation.
type CompiledUnit struct {
	Name string
	Host string
	Path string // classpath directory for java, shared object for go
}

// Output is what a compiler produced.
type Output struct {
	Success     bool
	Diagnostics []diag.Diagnostic // emission order
	Unit        *CompiledUnit     // nil unless Success
}

// Compiler turns translated source into a CompiledUnit.
//
// A non-nil error means the tool itself could not run. A compilation that
// ran and failed is reported through Output.Success and Output.Diagnostics.
type Compiler interface {
	Host() string
	Compile(ctx context.Context, req Request) (*Output, error)
}

// Config selects tool binaries. Empty fields fall back to PATH lookup.
type Config struct {
	Javac     string
	JavacArgs []string
	Go        string
}

// For returns the compiler for host.
func For(host string, cfg Config) (Compiler, error) {
	switch host {
	case HostJava:
		return &Javac{Path: cfg.Javac, Args: cfg.JavacArgs}, nil
	case HostGo:
		return &GoPlugin{Path: cfg.Go}, nil
	}
	return nil, fmt.Errorf("no compiler for host %q", host)
}

// SourceName returns the slash-separated path the host expects for unit.
// A qualified Java class com.acme.Main lives in com/acme/Main.java.
func SourceName(host, unit string) string {
	switch host {
	case HostJava:
		return strings.ReplaceAll(unit, ".", "/") + ".java"
	case HostGo:
		return "main.go"
	}
	return unit
}

func validate(req Request) error {
	if req.UnitName == "" {
		return fmt.Errorf("missing unit name")
	}
	if req.File == nil {
		return fmt.Errorf("missing source file")
	}
	if req.OutDir == "" {
		return fmt.Errorf("missing output directory")
	}
	return nil
}

func u32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return v
}
