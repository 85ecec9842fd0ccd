package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ShutdownFunc releases one component's resources during shutdown.
type ShutdownFunc func(ctx context.Context) error

type registration struct {
	component string
	close     ShutdownFunc
}

// Manager tears the process down in reverse registration order, so consumers
// stop before the stores they depend on. It also translates OS termination
// signals into a context cancellation.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu            sync.Mutex
	registrations []registration
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		timeout: timeout,
		logger:  logger,
	}
}

// Register records a component's shutdown callback under a name used in
// shutdown logs.
func (m *Manager) Register(component string, fn ShutdownFunc) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations = append(m.registrations, registration{component: component, close: fn})
}

// Shutdown runs every registered callback, newest first, within the
// configured timeout. Failures are collected rather than aborting the
// remaining callbacks.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	var failed error
	for i := len(m.registrations) - 1; i >= 0; i-- {
		reg := m.registrations[i]
		if err := reg.close(ctx); err != nil {
			failed = errors.Join(failed, err)
			m.logger.Error("component shutdown failed",
				zap.String("component", reg.component),
				zap.Error(err))
			continue
		}
		m.logger.Info("component stopped", zap.String("component", reg.component))
	}
	return failed
}

// Listen cancels the application context when SIGTERM or SIGINT arrives.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(signals)
		sig := <-signals
		m.logger.Info("termination signal received", zap.String("signal", sig.String()))
		cancel()
	}()
}
