// Package trace records what metair is doing: command boundaries, decode
// and print passes, and per-fragment work.
//
// Enable it from the command line:
//
//	metair dump --trace=- --trace-level=detail lib/*.kmeta
//
// Tracers:
//
//   - Nop: used when tracing is off, costs nothing
//   - StreamTracer: writes every event as it happens
//   - RingTracer: keeps the last N events for a post-mortem dump
//   - MultiTracer: fans out to several tracers
//
// Levels gate scopes: LevelPhase emits driver and pass spans, LevelDetail
// adds one span per fragment, LevelDebug emits everything.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "decode", 0)
//	defer span.End("")
package trace
