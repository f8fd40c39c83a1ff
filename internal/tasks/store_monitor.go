package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/relentron/website/internal/logging"
	"github.com/relentron/website/internal/metrics"
)

// DefaultStoreCheckInterval is how often the store is pinged
const DefaultStoreCheckInterval = time.Minute

// Pinger is satisfied by *db.Database
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreMonitor pings the enquiry store in the background, publishes the
// result as a gauge and logs when the store goes down or comes back
type StoreMonitor struct {
	store    Pinger
	interval time.Duration
	timeout  time.Duration
	logger   *logging.Logger

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	up     bool
	probed bool
}

// NewStoreMonitor creates a store monitor. A non-positive interval uses
// DefaultStoreCheckInterval.
func NewStoreMonitor(store Pinger, interval time.Duration, logger *logging.Logger) *StoreMonitor {
	if interval <= 0 {
		interval = DefaultStoreCheckInterval
	}
	return &StoreMonitor{
		store:    store,
		interval: interval,
		timeout:  5 * time.Second,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins the monitor task in the background
func (m *StoreMonitor) Start() {
	m.wg.Add(1)
	go m.runPeriodically()
}

// Stop gracefully stops the monitor task. It is safe to call more than once.
func (m *StoreMonitor) Stop() {
	m.once.Do(func() { close(m.done) })
	m.wg.Wait()
}

// Up reports the result of the latest ping
func (m *StoreMonitor) Up() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.up
}

func (m *StoreMonitor) runPeriodically() {
	defer m.wg.Done()

	m.check()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.check()
		case <-m.done:
			m.logger.Debug("Store monitor stopped")
			return
		}
	}
}

func (m *StoreMonitor) check() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	err := m.store.Ping(ctx)
	up := err == nil
	metrics.SetStoreUp(up)

	m.mu.Lock()
	changed := !m.probed || m.up != up
	m.up = up
	m.probed = true
	m.mu.Unlock()

	if !changed {
		return
	}
	if up {
		m.logger.Info("Enquiry store reachable")
	} else {
		m.logger.Error("Enquiry store unreachable: %v", err)
	}
}
