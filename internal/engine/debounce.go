package engine

import (
	"sync"
	"time"

	"github.com/emiliopalmerini/codepulse/internal/domain"
	"github.com/emiliopalmerini/codepulse/internal/ports"
)

// editInactivityWindow is how long the global edit stream must stay quiet
// before the accumulated burst counters reset.
const editInactivityWindow = 5 * time.Second

// debouncer rate-limits the internal keystroke bookkeeping. Every edit is
// forwarded to the sink immediately; only the running counters are subject
// to the inactivity reset. The accumulated total is reserved for a future
// batched-emission mode and has no consumer yet.
type debouncer struct {
	sink  ports.Sink
	clock Clock

	// mu guards the fields below: the inactivity timer fires outside the
	// host dispatch context.
	mu     sync.Mutex
	total  int
	bursts map[string]*domain.KeystrokeBurst
	timer  Timer
	closed bool
}

func newDebouncer(sink ports.Sink, clock Clock) *debouncer {
	return &debouncer{
		sink:   sink,
		clock:  clock,
		bursts: make(map[string]*domain.KeystrokeBurst),
	}
}

// Edit forwards one edit event to the sink and restarts the inactivity
// window.
func (d *debouncer) Edit(fileID string, changedChars int) {
	d.sink.RecordKeystroke(fileID, changedChars)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.total += changedChars
	b := d.bursts[fileID]
	if b == nil {
		b = &domain.KeystrokeBurst{FileID: fileID, WindowStart: d.clock.Now()}
		d.bursts[fileID] = b
	}
	b.ChangedChars += changedChars

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(editInactivityWindow, d.reset)
}

func (d *debouncer) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.total = 0
	d.bursts = make(map[string]*domain.KeystrokeBurst)
	d.timer = nil
}

// Close cancels the pending inactivity timer without firing it.
func (d *debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
