package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"glosa/internal/trace"
)

// toolRun is one finished compiler process.
type toolRun struct {
	Output string // stderr and stdout, in that order
	Failed bool   // non-zero exit
}

func lookTool(name, fallback string) (string, error) {
	if name == "" {
		name = fallback
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w (%w)", name, ErrToolNotFound, err)
	}
	return path, nil
}

// runTool runs a compiler in dir. A non-zero exit is not an error: the
// caller parses the output. Only start failures and cancellation are.
func runTool(ctx context.Context, attrs trace.Attrs, dir, name string, args ...string) (toolRun, error) {
	ctx, step := trace.Start(ctx, trace.LayerTool, filepath.Base(name), attrs)

	// #nosec G204 -- tool path and args are built by the toolchain
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr, stdout strings.Builder
	cmd.Stderr = &stderr
	cmd.Stdout = &stdout

	err := cmd.Run()
	out := stderr.String() + stdout.String()
	if err == nil {
		step.Finish("ok")
		return toolRun{Output: out}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		step.Finish("cancelled")
		return toolRun{}, fmt.Errorf("%s: %w", name, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		step.Finish(fmt.Sprintf("exit %d", exitErr.ExitCode()))
		return toolRun{Output: out, Failed: true}, nil
	}
	step.Finish("error")
	return toolRun{}, fmt.Errorf("failed to run %s: %w", name, err)
}
