package lifecycle

import (
	"context"

	"github.com/zmlAEQ/govbls/pkg/logger"
)

// Service is a start/stop unit managed by a Manager.
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Manager starts services in registration order and stops them in reverse.
type Manager struct {
	svcs    []Service
	started int
}

func New() *Manager { return &Manager{} }

func (m *Manager) Add(s Service) { m.svcs = append(m.svcs, s) }

// StartAll starts every registered service. On failure it stops the services
// already started (reverse order) and returns the original error.
func (m *Manager) StartAll(ctx context.Context) error {
	for i, s := range m.svcs {
		if err := s.Start(ctx); err != nil {
			logger.ErrorJ("service_op", map[string]any{"service": s.Name(), "op": "start", "result": "error", "err": err.Error()})
			m.started = i
			_ = m.StopAll(ctx)
			return err
		}
	}
	m.started = len(m.svcs)
	return nil
}

// StopAll stops started services in reverse order, returning the first error.
func (m *Manager) StopAll(ctx context.Context) error {
	var first error
	for i := m.started - 1; i >= 0; i-- {
		if err := m.svcs[i].Stop(ctx); err != nil && first == nil {
			first = err
		}
	}
	m.started = 0
	return first
}
