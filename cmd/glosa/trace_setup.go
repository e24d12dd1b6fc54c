package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"glosa/internal/trace"
)

// setupTracing reads the trace flags and attaches a recorder to the command
// context. The returned cleanup stops the pulse and closes the stream.
func setupTracing(cmd *cobra.Command) (func(), error) {
	flags := cmd.Flags()

	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, usageError{err: err}
	}
	// --trace без уровня включает стадии
	if level == trace.LevelOff && traceOutput != "" && !flags.Changed("trace-level") {
		level = trace.LevelStage
	}
	if level == trace.LevelOff {
		return func() {}, nil
	}
	stream, keep, err := traceStorage(modeStr, ringSize)
	if err != nil {
		return nil, usageError{err: err}
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, usageError{err: err}
	}

	opts := trace.Options{Level: level, Format: format.Resolve(traceOutput), Keep: keep}
	if stream && level != trace.LevelError {
		w, err := openTraceOutput(cmd, traceOutput)
		if err != nil {
			return nil, err
		}
		opts.Stream = w
	}
	rec := trace.NewRecorder(opts)
	cmd.SetContext(trace.WithRecorder(cmd.Context(), rec))

	stopPulse := rec.Pulse(heartbeatInterval)
	cleanup := func() {
		stopPulse()
		if err := rec.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

// traceStorage maps --trace-mode to streaming and the in-memory size.
func traceStorage(mode string, ringSize int) (stream bool, keep int, err error) {
	switch strings.ToLower(mode) {
	case "stream":
		return true, 0, nil
	case "ring":
		return false, ringSize, nil
	case "both":
		return true, ringSize, nil
	}
	return false, 0, fmt.Errorf("invalid trace mode: %q (expected: stream|ring|both)", mode)
}

func openTraceOutput(cmd *cobra.Command, path string) (io.Writer, error) {
	if path == "" || path == "-" {
		return keepOpen{cmd.ErrOrStderr()}, nil
	}
	f, err := os.Create(path) // #nosec G304 -- path comes from --trace
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// dumpTraceRing writes the in-memory journal to w after a failed command.
func dumpTraceRing(cmd *cobra.Command, w io.Writer) {
	rec := trace.FromContext(cmd.Context())
	if !rec.KeepsRecent() {
		return
	}
	fmt.Fprintln(w, "trace (last events):")
	if err := rec.DumpRecent(w); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}

// keepOpen hides Close so the recorder leaves the command's stderr alone.
type keepOpen struct{ io.Writer }
