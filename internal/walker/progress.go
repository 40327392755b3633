package walker

import (
	"sync"

	"github.com/strummet/pricewatch/pkg/models"
)

// Progress tracks the counters of an in-flight walk behind a mutex so the
// query interface can read a consistent snapshot while the walk mutates it.
type Progress struct {
	mu   sync.Mutex
	snap models.ProgressSnapshot
}

func (p *Progress) begin(total int, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap = models.ProgressSnapshot{
		InProgress: true,
		Progress:   0,
		Total:      total,
		Message:    message,
	}
}

func (p *Progress) step(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Progress++
	p.snap.Message = message
}

func (p *Progress) finish(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.InProgress = false
	p.snap.Message = message
}

// Snapshot returns a copy of the current progress state.
func (p *Progress) Snapshot() models.ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}
