package scanner

// Observer is notified of scan progress. Advance is called exactly once per
// candidate, success or failure, from worker goroutines in no particular
// order. Implementations must be safe for concurrent use.
type Observer interface {
	// Start is called once with the number of candidates before fan-out.
	Start(total int)

	// Advance reports that one candidate has been processed.
	Advance()

	// Finish is called once after every candidate has been processed.
	Finish()
}

// ProgressFunc adapts a plain callback to the Observer interface.
// The callback is invoked once per processed candidate.
type ProgressFunc func()

// Start implements Observer.
func (f ProgressFunc) Start(int) {}

// Advance implements Observer.
func (f ProgressFunc) Advance() {
	if f != nil {
		f()
	}
}

// Finish implements Observer.
func (f ProgressFunc) Finish() {}

// nopObserver discards all notifications.
type nopObserver struct{}

func (nopObserver) Start(int) {}
func (nopObserver) Advance()  {}
func (nopObserver) Finish()   {}
