package player

// funnel serializes units of work onto a single dedicated worker goroutine.
// The native engine is not safe under concurrent access, so every engine
// touch and every shadow-state mutation must go through here.
type funnel struct {
	jobs chan func()
	done chan struct{} // closed once the worker has drained and exited
}

func newFunnel() *funnel {
	f := &funnel{
		jobs: make(chan func(), 64),
		done: make(chan struct{}),
	}
	go f.worker()
	return f
}

func (f *funnel) worker() {
	defer close(f.done)
	for job := range f.jobs {
		job()
	}
}

// submit enqueues a unit of work and returns without waiting for it.
func (f *funnel) submit(job func()) {
	f.jobs <- job
}

// submitWait enqueues a unit of work and blocks until it has run.
// Must not be called from the worker goroutine itself, else deadlock.
func (f *funnel) submitWait(job func()) {
	ran := make(chan struct{})
	f.jobs <- func() {
		job()
		close(ran)
	}
	<-ran
}

// close stops accepting new work and waits for queued units to finish.
// Submitted units always run to completion; there is no cancellation.
func (f *funnel) close() {
	close(f.jobs)
	<-f.done
}
