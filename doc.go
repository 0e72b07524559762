// Package parallel provides a small fan-out/fan-in primitive for Go
// concurrency.
//
// It runs a fixed batch of closures concurrently, blocks until every one of
// them has finished, and returns their results in a well-defined order.
// Closures may borrow variables from the calling frame; Run does not return
// until every goroutine it started has been joined, so those borrows stay
// valid for the whole batch.
//
// Core behavior:
//   - queue tasks with Add, or one per element with Each
//   - execute the whole batch with a single Run call
//   - the last queued task runs on the calling goroutine itself
//   - run something else on the calling goroutine with Finish
//
// Semantics:
//   - results are ordered by queue position, never by completion order
//   - a panicking task never tears down its siblings or the process
//   - every goroutine is joined before Run returns or re-panics
//   - if any task panicked, Run re-panics with the first captured panic
//
// Policy:
//   - concurrency always equals the number of queued tasks; there is no
//     limit, no pooling, no cancellation, and no timeout
//   - shared state between tasks is the caller's to synchronize, for
//     example with a sync.Mutex captured by the closures
package parallel
