package service

import (
	"context"
	"sync"
	"time"

	"github.com/agentstationhq/station/internal/domain"
	"github.com/agentstationhq/station/internal/metrics"
	"go.uber.org/zap"
)

const (
	defaultProbeInterval = 3 * time.Second

	// Upper bound for a full sweep; generous relative to per-probe
	// timeouts so a large registry still finishes.
	sweepTimeout = 5 * time.Minute
)

// MonitorService drives agent status from network reality. It probes
// every registered agent on a fixed interval, records status flips in
// the registry, and publishes an agent_status_changed event for each
// flip. The loop runs for the lifetime of the process: per-agent errors
// are logged and folded into an inactive signal, never raised.
type MonitorService struct {
	registry  domain.AgentRegistry
	publisher domain.EventPublisher
	prober    *Prober
	logger    *zap.Logger
	metrics   *metrics.Metrics

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewMonitorService(registry domain.AgentRegistry, publisher domain.EventPublisher, prober *Prober, m *metrics.Metrics, logger *zap.Logger) *MonitorService {
	return &MonitorService{
		registry:  registry,
		publisher: publisher,
		prober:    prober,
		logger:    logger,
		metrics:   m,
		interval:  defaultProbeInterval,
		stopCh:    make(chan struct{}),
	}
}

func (s *MonitorService) SetInterval(d time.Duration) {
	s.interval = d
}

// Start begins the background probe worker. The first sweep runs
// immediately so freshly started agents are picked up without waiting a
// full interval.
func (s *MonitorService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("liveness monitor started", zap.Duration("interval", s.interval))

		s.sweep()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopCh:
				s.logger.Info("liveness monitor stopped")
				return
			}
		}
	}()
}

// Stop halts the background probe worker.
func (s *MonitorService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *MonitorService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()
	s.RunSweep(ctx)
}

// RunSweep probes every registered agent once. A probe failure for one
// agent does not affect the others in the same pass.
func (s *MonitorService) RunSweep(ctx context.Context) {
	agents, err := s.registry.List(ctx)
	if err != nil {
		s.logger.Error("failed to list agents for probing", zap.Error(err))
		return
	}

	for i := range agents {
		s.probeAgent(ctx, &agents[i])
	}
}

func (s *MonitorService) probeAgent(ctx context.Context, agent *domain.Agent) {
	res := s.prober.Probe(ctx, agent.Endpoint)

	var (
		status     domain.AgentStatus
		observedAt *time.Time
	)
	if res.OK {
		status = domain.StatusActive
		observedAt = &res.ObservedAt
		s.metrics.ProbesTotal.WithLabelValues("ok").Inc()
	} else {
		// Failure never advances the liveness timestamp: last_seen_at
		// keeps recording the last successful probe.
		status = domain.StatusInactive
		observedAt = agent.LastSeenAt
		s.metrics.ProbesTotal.WithLabelValues("fail").Inc()
		s.logger.Debug("probe failed",
			zap.String("agent_id", agent.ID),
			zap.Int("status_code", res.StatusCode),
			zap.Error(res.Err))
	}

	updated, err := s.registry.SetStatus(ctx, agent.ID, status, observedAt)
	if err != nil {
		s.logger.Error("failed to record agent status",
			zap.String("agent_id", agent.ID), zap.Error(err))
		return
	}
	if updated == nil {
		// Absent agent or no status change; nothing to announce.
		return
	}

	s.metrics.StatusTransitions.WithLabelValues(string(updated.Status)).Inc()
	s.logger.Info("agent status changed",
		zap.String("agent_id", updated.ID),
		zap.String("status", string(updated.Status)))
	s.publisher.Publish(domain.NewAgentStatusChanged(updated))
}
