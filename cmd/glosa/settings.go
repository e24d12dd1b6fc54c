package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"glosa/internal/cache"
	"glosa/internal/i18n"
	"glosa/internal/launch"
	"glosa/internal/project"
	"glosa/internal/toolchain"
	"glosa/internal/vocab"
)

// globals are the persistent flags merged with the project settings.
type globals struct {
	settings       *project.Settings
	catalog        *i18n.Catalog
	quiet          bool
	timings        bool
	maxDiagnostics int
	uiLang         string
}

func loadGlobals(cmd *cobra.Command) (*globals, error) {
	flags := cmd.Flags()
	g := &globals{}
	var err error
	if g.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if g.maxDiagnostics < 0 {
		return nil, usageError{err: fmt.Errorf("--max-diagnostics must not be negative")}
	}
	if g.uiLang, err = flags.GetString("ui-lang"); err != nil {
		return nil, fmt.Errorf("failed to get ui-lang flag: %w", err)
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	if configPath != "" {
		g.settings, err = project.ResolveManifest(configPath, os.Environ())
	} else {
		var wd string
		if wd, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		g.settings, err = project.Resolve(wd, os.Environ())
	}
	if err != nil {
		return nil, err
	}
	if flags.Changed("host") {
		host, hostErr := flags.GetString("host")
		if hostErr != nil {
			return nil, fmt.Errorf("failed to get host flag: %w", hostErr)
		}
		g.settings.Host = strings.ToLower(strings.TrimSpace(host))
	}

	if g.catalog, err = i18n.Load(); err != nil {
		return nil, err
	}
	return g, nil
}

// printer picks the status-line language: --ui-lang, then the program's
// vocabulary, then $LANG.
func (g *globals) printer(tbl *vocab.Table) *i18n.Printer {
	var locales []string
	if g.uiLang != "" {
		locales = append(locales, g.uiLang)
	}
	if tbl != nil && tbl.Locale() != "" {
		locales = append(locales, tbl.Locale())
	}
	if sys := systemLocale(); sys != "" {
		locales = append(locales, sys)
	}
	return g.catalog.Printer(locales...)
}

// systemLocale turns "es_AR.UTF-8" into "es-AR".
func systemLocale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(key)
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return ""
}

func (g *globals) registry() (*vocab.Registry, error) {
	return vocab.Builtin(g.settings.Host, g.settings.VocabFiles...)
}

// compiler builds the host compiler, wrapped in the disk cache when enabled.
// drop removes every cached entry first.
func (g *globals) compiler(useCache, drop bool) (toolchain.Compiler, error) {
	s := g.settings
	comp, err := toolchain.For(s.Host, toolchain.Config{Javac: s.Javac, JavacArgs: s.JavacArgs, Go: s.Go})
	if err != nil {
		return nil, err
	}
	if !useCache || !s.CacheEnabled {
		return comp, nil
	}
	disk, err := cache.Open(s.CacheDir)
	if err != nil {
		return nil, err
	}
	if drop {
		if err := disk.DropAll(); err != nil {
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	salt := strings.Join(append([]string{s.Javac, s.Go}, s.JavacArgs...), "\x00")
	return &cache.Compiler{Inner: comp, Disk: disk, Salt: salt}, nil
}

func (g *globals) runner(cmd *cobra.Command) (launch.Runner, error) {
	return launch.For(g.settings.Host, launch.Config{
		Java:   g.settings.Java,
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
}

// toolName is what status lines call the host compiler.
func toolName(host string) string {
	switch host {
	case toolchain.HostJava:
		return "javac"
	case toolchain.HostGo:
		return "go build"
	}
	return host
}
