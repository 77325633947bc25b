// Package trace records what holders and operator tables do at run time.
//
// Holders are silent by default. Attaching a tracer to a maybe.Cell or a
// maybe.Table makes checkouts, releases, aliasing conflicts, duplications
// and operator dispatches visible, which is how copies that defeat
// borrowing are found.
//
//	t, _ := trace.New(trace.Config{Level: trace.LevelOp, Mode: trace.ModeStream})
//	cell := maybe.NewCell(big, maybe.WithName("config"), maybe.WithTracer(t))
//
// or from the command line:
//
//	maybeowned matrix --trace=- --trace-level=op
//
// Levels admit scopes from the coarsest up: error records only aliasing
// conflicts, borrow adds commands and checkouts, op adds operator dispatch
// and debug adds duplications.
//
// A tracer travels in a context.Context:
//
//	ctx = trace.WithTracer(ctx, t)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeCommand, "matrix", 0)
//	defer span.End("")
package trace
