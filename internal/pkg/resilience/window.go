package resilience

// outcomeWindow is a count-based ring of the most recent call outcomes.
// Not safe for concurrent use; the owning breaker guards it.
type outcomeWindow struct {
	failed   []bool
	next     int
	count    int
	failures int
}

func newOutcomeWindow(size int) *outcomeWindow {
	if size < 1 {
		size = 1
	}
	return &outcomeWindow{failed: make([]bool, size)}
}

func (w *outcomeWindow) add(failed bool) {
	if w.count == len(w.failed) {
		if w.failed[w.next] {
			w.failures--
		}
	} else {
		w.count++
	}
	w.failed[w.next] = failed
	if failed {
		w.failures++
	}
	w.next = (w.next + 1) % len(w.failed)
}

func (w *outcomeWindow) reset() {
	for i := range w.failed {
		w.failed[i] = false
	}
	w.next, w.count, w.failures = 0, 0, 0
}

// failureRate is expressed as a percentage in [0, 100].
func (w *outcomeWindow) failureRate() float64 {
	if w.count == 0 {
		return 0
	}
	return float64(w.failures) * 100 / float64(w.count)
}
