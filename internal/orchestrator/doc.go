// Package orchestrator coordinates asynchronous git work for the UI layer.
//
// It owns a small worker pool, debounces status refresh requests per
// project, deduplicates refreshes that are already in flight, and delivers
// results as typed events on subscriber channels. Mutation tasks run on
// the same pool and can trigger a follow-up status refresh so the UI
// converges shortly after every operation.
package orchestrator
