package launch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"glosa/internal/toolchain"
	"glosa/internal/trace"
)

// JavaRunner launches the main method of a compiled class in a JVM.
type JavaRunner struct {
	Path   string // java binary; PATH lookup when empty
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// JVM launcher messages.
var javaLauncherErrors = []struct {
	prefix string
	kind   Kind
}{
	{"Error: Could not find or load main class", NotFound},
	{"Error: Main method not found in class", NotFound},
	{"Error: Main method is not static in class", BadSignature},
	{"Error: Main method must return a value of type void", BadSignature},
	{"Error: Unable to initialize main class", RuntimeFailure},
	{`Exception in thread "main" java.lang.IllegalAccessError`, AccessDenied},
	{`Exception in thread "main" java.lang.IllegalAccessException`, AccessDenied},
}

func (j *JavaRunner) Invoke(ctx context.Context, unit *toolchain.CompiledUnit, entry string, args []string) error {
	if unit == nil {
		return fmt.Errorf("missing compiled unit")
	}
	if unit.Host != toolchain.HostJava {
		return fmt.Errorf("java runner cannot run %s units", unit.Host)
	}
	classFile := filepath.Join(unit.Path, filepath.FromSlash(strings.ReplaceAll(entry, ".", "/"))+".class")
	if _, err := os.Stat(classFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return invocationErr(NotFound, entry, fmt.Errorf("no class file %s", filepath.Base(classFile)))
		}
		return fmt.Errorf("failed to stat class file: %w", err)
	}

	name := j.Path
	if name == "" {
		name = "java"
	}
	tool, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	cmdArgs := append([]string{}, j.Args...)
	cmdArgs = append(cmdArgs, "-cp", unit.Path, entry)
	cmdArgs = append(cmdArgs, args...)

	ctx, step := trace.Start(ctx, trace.LayerTool, "java", trace.Attrs{Host: unit.Host, Unit: unit.Name, Entry: entry})
	// #nosec G204 -- the class name was compiled by us
	cmd := exec.CommandContext(ctx, tool, cmdArgs...)
	cmd.Stdin = j.Stdin
	cmd.Stdout = orDiscard(j.Stdout)
	var stderr bytes.Buffer
	cmd.Stderr = io.MultiWriter(&stderr, orDiscard(j.Stderr))
	err = cmd.Run()
	if err == nil {
		step.Finish("ok")
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		step.Finish("cancelled")
		return invocationErr(RuntimeFailure, entry, ctxErr)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		step.Finish("error")
		return fmt.Errorf("failed to run java: %w", err)
	}
	step.Finish(fmt.Sprintf("exit %d", exitErr.ExitCode()))
	return classifyJava(entry, stderr.String(), exitErr.ExitCode())
}

// classifyJava looks at the first stderr line only: launcher errors come
// before any program output.
func classifyJava(entry, stderr string, code int) error {
	first, _, _ := strings.Cut(strings.TrimSpace(stderr), "\n")
	first = strings.TrimSpace(first)
	for _, le := range javaLauncherErrors {
		if strings.HasPrefix(first, le.prefix) {
			return invocationErr(le.kind, entry, errors.New(first))
		}
	}
	return invocationErr(RuntimeFailure, entry, fmt.Errorf("exit status %d", code))
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
