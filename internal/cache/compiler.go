package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"glosa/internal/toolchain"
	"glosa/internal/trace"
)

// Compiler wraps a toolchain.Compiler with a Disk cache.
//
// A hit replays the stored diagnostics without running the tool. A miss
// compiles into the entry directory and stores the result. The request's
// OutDir is ignored: artefacts live in the cache.
type Compiler struct {
	Inner toolchain.Compiler
	Disk  *Disk
	// Salt separates entries produced by differently configured tools.
	Salt string
}

func (c *Compiler) Host() string { return c.Inner.Host() }

func (c *Compiler) Compile(ctx context.Context, req toolchain.Request) (*toolchain.Output, error) {
	if req.File == nil {
		return nil, fmt.Errorf("missing source file")
	}
	key := KeyFor(c.Inner.Host(), req.UnitName, req.File.Content, c.Salt)
	entryDir := c.Disk.EntryDir(key)
	attrs := trace.Attrs{Host: c.Inner.Host(), Unit: req.UnitName}

	payload, ok, err := c.Disk.Get(key)
	if err != nil {
		// битая запись - просто перекомпилируем
		trace.Note(ctx, trace.LayerTool, "cache", attrs, "corrupt: "+err.Error())
		ok = false
	}
	if ok && c.usable(payload, entryDir) {
		trace.Note(ctx, trace.LayerTool, "cache", attrs, "hit "+key.String())
		return &toolchain.Output{
			Success:     payload.Success,
			Diagnostics: decodeDiagnostics(payload.Diagnostics, req.File.ID),
			Unit:        unitOf(payload, entryDir),
		}, nil
	}

	if err := os.RemoveAll(entryDir); err != nil {
		return nil, fmt.Errorf("failed to reset cache entry: %w", err)
	}
	inner := req
	inner.OutDir = entryDir
	out, err := c.Inner.Compile(ctx, inner)
	if err != nil {
		return nil, err
	}

	stored := &Payload{
		Success:     out.Success,
		Diagnostics: encodeDiagnostics(out.Diagnostics, req.File.ID),
		Unit:        req.UnitName,
		Host:        c.Inner.Host(),
	}
	if out.Unit != nil {
		rel, relErr := filepath.Rel(entryDir, out.Unit.Path)
		if relErr != nil {
			return nil, fmt.Errorf("unit outside cache entry: %w", relErr)
		}
		stored.Artifact = filepath.ToSlash(rel)
	}
	if err := c.Disk.Put(key, stored); err != nil {
		return nil, fmt.Errorf("failed to store cache entry: %w", err)
	}
	return out, nil
}

// usable reports whether the artefact of a successful entry is still on disk.
func (c *Compiler) usable(p *Payload, entryDir string) bool {
	if !p.Success {
		return true
	}
	_, err := os.Stat(joinArtifact(entryDir, p.Artifact))
	return err == nil
}

func joinArtifact(entryDir, rel string) string {
	return filepath.Join(entryDir, filepath.FromSlash(rel))
}
