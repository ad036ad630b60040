// Package profile wraps [github.com/pkg/profile] so that runtime profiling of
// a scan can be switched on from the command line.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof ./...
//
// Without the tag [Modes] is empty and every [Profiler] is a no-op, so
// callers never need their own build constraints.
//
// # Modes
//
// allocs, block, clock, cpu, goroutine, heap, mem, mutex, thread and trace
// select the matching pkg/profile mode. Profiles are written as <mode>.pprof
// (trace.out for trace) under [Profiler.Path].
//
//	p := profile.New(profile.WithMode("heap"), profile.WithPath(dir))
//	defer p.Start().Stop()
//
// Inspect the result with
//
//	go tool pprof -http=: varscan heap.pprof
//
// The tagged build also imports net/http/pprof, which registers handlers
// under /debug/pprof/ on http.DefaultServeMux for programs embedding the
// scanner in a server.
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
