package browser

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"pagepilot/internal/domain"
)

// Factory builds a fresh Driver. The session manager owns the lifecycle of
// what it returns.
type Factory func(ctx context.Context) (Driver, error)

// Manager hands out a lazily started browser session. The browser is not
// launched until the first Get; a dead session is detected by pinging and
// replaced transparently. Repeated launch failures trip a circuit breaker
// so callers fail fast instead of waiting out a Chrome start timeout every
// time.
type Manager struct {
	mu      sync.Mutex
	factory Factory
	driver  Driver
	breaker *gobreaker.CircuitBreaker[Driver]
	logger  *slog.Logger
}

// NewManager wires a session manager around factory.
func NewManager(factory Factory, logger *slog.Logger) *Manager {
	m := &Manager{factory: factory, logger: logger}
	m.breaker = gobreaker.NewCircuitBreaker[Driver](gobreaker.Settings{
		Name:        "browser-launch",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("browser launch breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return m
}

// Get returns the live driver, launching or relaunching as needed.
func (m *Manager) Get(ctx context.Context) (Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.driver != nil {
		if m.ping(ctx) {
			return m.driver, nil
		}
		m.logger.Warn("browser session dead, relaunching")
		_ = m.driver.Close()
		m.driver = nil
	}
	return m.launch(ctx)
}

// ping checks the session is still answering. Caller must hold mu.
func (m *Manager) ping(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := m.driver.CurrentURL(pctx)
	return err == nil
}

// launch starts a driver through the breaker. Caller must hold mu.
func (m *Manager) launch(ctx context.Context) (Driver, error) {
	d, err := m.breaker.Execute(func() (Driver, error) {
		return m.factory(ctx)
	})
	if err != nil {
		return nil, domain.NewDomainError("browser.acquire", domain.ErrBrowserUnavailable, err.Error())
	}
	m.driver = d
	return d, nil
}

// Active reports whether a session currently exists, without starting one.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.driver != nil
}

// Reset closes any current session and starts a fresh one.
func (m *Manager) Reset(ctx context.Context) (Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.driver != nil {
		_ = m.driver.Close()
		m.driver = nil
	}
	return m.launch(ctx)
}

// Close releases the session if one exists.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.driver == nil {
		return nil
	}
	err := m.driver.Close()
	m.driver = nil
	return err
}
