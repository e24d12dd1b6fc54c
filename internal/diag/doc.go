// Package diag defines the diagnostic model shared by the translation and
// compile stages.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – NOTE, WARNING or ERROR (severity.go).
//   - Code – compact numeric identifier with a stable string form (codes.go).
//   - Message – text exactly as produced; compiler messages are never rewritten.
//   - Primary – byte span into a source.FileSet file, or source.NoSpan when the
//     producer reported no position.
//   - Label – the producer's own name for the source (e.g. "Main.java").
//   - Notes – secondary spans, e.g. the matching spot in the localized source.
//
// # Ordering
//
// Bag keeps diagnostics in emission order and never sorts: compiler output is
// reported in the order the compiler produced it, so runs are reproducible.
//
// # Emitting
//
// Producers take a Reporter and either call Report directly or chain a
// ReportBuilder (ReportError/ReportWarning + WithNote + Emit). BagReporter
// collects into a Bag.
//
// Package diag performs no IO. Rendering lives in internal/diagfmt.
package diag
