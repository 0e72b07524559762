package parallel

import (
	"iter"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of work queued on a Parallel builder.
//
// A Task may signal failure only by panicking; the panic is captured and
// re-raised by Run after every sibling has been joined.
type Task[T any] func() T

// Parallel accumulates tasks and runs them all at once.
//
// The zero value is ready to use. A Parallel is not safe for concurrent
// mutation: build it on one goroutine, then hand the whole batch to Run.
type Parallel[T any] struct {
	tasks []Task[T]
}

// outcome records how one task terminated. Every task writes only its own
// slot, so the collection needs no lock.
type outcome[T any] struct {
	value    T
	panicked bool
	cause    any
}

// capture runs task and records either its value or the panic that ended it.
func (o *outcome[T]) capture(task Task[T]) {
	defer func() {
		if cause := recover(); cause != nil {
			o.panicked = true
			o.cause = cause
		}
	}()
	o.value = task()
}

// New creates an empty builder for tasks producing T.
func New[T any]() *Parallel[T] {
	return &Parallel[T]{}
}

// Add queues one task and returns the builder for chaining.
// Add panics if task is nil.
func (p *Parallel[T]) Add(task Task[T]) *Parallel[T] {
	if task == nil {
		panic("parallel: nil task")
	}
	p.tasks = append(p.tasks, task)
	return p
}

// Each queues one task per element of seq, preserving iteration order, and
// returns the builder for chaining. Each element is captured at call time,
// so mutating the underlying container afterwards does not change what was
// queued; fn itself is invoked during Run.
//
// Each is a package-level function because the element type E is independent
// of the builder's result type T.
// Each panics if fn is nil.
func Each[E, T any](p *Parallel[T], seq iter.Seq[E], fn func(E) T) *Parallel[T] {
	if fn == nil {
		panic("parallel: nil task")
	}
	for e := range seq {
		p.tasks = append(p.tasks, func() T { return fn(e) })
	}
	return p
}

// Len reports how many tasks are queued.
func (p *Parallel[T]) Len() int {
	return len(p.tasks)
}

// Run executes every queued task and blocks until all of them have finished.
// It consumes the queue; the builder is empty afterwards.
//
// One goroutine is started per task except the last, which runs on the
// calling goroutine instead of leaving it idle in the join. A sole task runs
// inline with no goroutine at all, and an empty builder returns an empty
// slice immediately. Results come back in queue order regardless of which
// task finished first.
//
// A panicking task does not abort its siblings: every task runs to
// completion and every goroutine is joined before Run returns. If one or
// more tasks panicked, Run re-panics with the first captured panic in queue
// order once the join is complete; the remaining panics are discarded.
func (p *Parallel[T]) Run() []T {
	tasks := p.tasks
	p.tasks = nil

	n := len(tasks)
	results := make([]T, n)
	switch n {
	case 0:
		return results
	case 1:
		// No capture machinery needed: the sole task's panic is already
		// synchronous for the caller.
		results[0] = tasks[0]()
		return results
	}

	outcomes := make([]outcome[T], n)

	var eg errgroup.Group
	for i, task := range tasks[:n-1] {
		eg.Go(func() error {
			outcomes[i].capture(task)
			return nil
		})
	}

	// The calling goroutine takes the final task itself.
	outcomes[n-1].capture(tasks[n-1])

	// Join every worker before touching the outcomes. Tasks may borrow
	// variables from the caller's frame, so none of them may outlive Run.
	_ = eg.Wait()

	return reduce(results, outcomes)
}

// Finish starts a goroutine for every queued task, runs fn on the calling
// goroutine while they execute, and joins everything before returning. It
// consumes the queue, like Run.
//
// It returns the ordered task results together with fn's own result. Panic
// handling matches Run, with fn treated as the final queue slot: the first
// panicking task wins, then fn.
// Finish panics if fn is nil.
func Finish[T, R any](p *Parallel[T], fn func() R) ([]T, R) {
	if fn == nil {
		panic("parallel: nil task")
	}

	tasks := p.tasks
	p.tasks = nil

	n := len(tasks)
	outcomes := make([]outcome[T], n)

	var eg errgroup.Group
	for i, task := range tasks {
		eg.Go(func() error {
			outcomes[i].capture(task)
			return nil
		})
	}

	var last outcome[R]
	last.capture(Task[R](fn))

	_ = eg.Wait()

	results := reduce(make([]T, n), outcomes)
	if last.panicked {
		panic(last.cause)
	}
	return results, last.value
}

// reduce fills results from outcomes in queue order, re-panicking with the
// first captured panic if any task failed.
func reduce[T any](results []T, outcomes []outcome[T]) []T {
	for i := range outcomes {
		if outcomes[i].panicked {
			panic(outcomes[i].cause)
		}
		results[i] = outcomes[i].value
	}
	return results
}
