package translate

import "sort"

// Edit records one substitution in original and rewritten byte offsets.
type Edit struct {
	OrigStart, OrigEnd uint32
	NewStart, NewEnd   uint32
	From, To           string
}

// Result is the outcome of one Translate call.
type Result struct {
	Original      string
	Rewritten     string
	Substitutions int
	Edits         []Edit // in source order
}

// Changed reports whether any word was replaced.
func (r *Result) Changed() bool { return r.Substitutions > 0 }

// OriginalOffset maps a byte offset in Rewritten back to Original.
// Offsets inside a replacement map into the replaced word, clamped to its end.
func (r *Result) OriginalOffset(off uint32) uint32 {
	// первая правка, которая заканчивается после off
	i := sort.Search(len(r.Edits), func(i int) bool { return r.Edits[i].NewEnd > off })
	if i < len(r.Edits) && r.Edits[i].NewStart <= off {
		e := r.Edits[i]
		return min(e.OrigStart+(off-e.NewStart), e.OrigEnd)
	}
	if i == 0 {
		return off
	}
	prev := r.Edits[i-1]
	return prev.OrigEnd + (off - prev.NewEnd)
}
