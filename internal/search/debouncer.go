package search

import (
	"sync"
	"time"

	"github.com/ignatzorin/proposals-console/internal/goroutine"
)

// Debouncer откладывает вызов fire до тех пор, пока запросы не перестанут
// поступать на время wait. За один период затишья fire вызывается не больше
// одного раза и получает последний запрос.
type Debouncer struct {
	mu      sync.Mutex
	wait    time.Duration
	fire    func(q Query)
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// NewDebouncer создаёт дебаунсер.
func NewDebouncer(wait time.Duration, fire func(q Query)) *Debouncer {
	return &Debouncer{
		wait: wait,
		fire: fire,
	}
}

// Trigger перезапускает отсчёт с новым запросом.
func (d *Debouncer) Trigger(q Query) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() {
		defer goroutine.DefaultRecoveryHandler.Recover("search debouncer")

		// Таймер мог сработать одновременно с новым Trigger: выигрывает последний
		d.mu.Lock()
		current := !d.stopped && gen == d.gen
		d.mu.Unlock()
		if current {
			d.fire(q)
		}
	})
}

// Stop отменяет отложенный вызов; последующие Trigger игнорируются.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
