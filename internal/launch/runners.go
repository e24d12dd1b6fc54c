package launch

import (
	"fmt"
	"io"

	"glosa/internal/toolchain"
)

// Config carries the process wiring for runners that start a child.
type Config struct {
	Java   string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// For returns the default runner for host.
func For(host string, cfg Config) (Runner, error) {
	switch host {
	case toolchain.HostJava:
		return &JavaRunner{Path: cfg.Java, Stdin: cfg.Stdin, Stdout: cfg.Stdout, Stderr: cfg.Stderr}, nil
	case toolchain.HostGo:
		return PluginRunner{}, nil
	}
	return nil, fmt.Errorf("no runner for host %q", host)
}
