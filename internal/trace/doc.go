// Package trace keeps a journal of one glosa command.
//
// Every step of a run is recorded as a start/finish pair on one of three
// layers: the command itself, the pipeline stages (compile, invoke) and the
// tools underneath (javac, go build, java, plugin.Open, cache). Steps carry
// the host, the unit and the entry point they work on, so a journal line
// says which class javac was compiling when it stalled.
//
// The journal can be streamed as text or NDJSON, kept in memory and dumped
// when the command fails, or both:
//
//	glosa run --trace=- --trace-level=tool spanish Hola.es Hola
//
// Recorders travel in context:
//
//	ctx, step := trace.Start(ctx, trace.LayerStage, "compile", trace.Attrs{Unit: "Hola"})
//	defer step.Finish("")
package trace
