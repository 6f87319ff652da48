// Package sla implements the SLA watchdog: a recurring scan that finds open
// complaints past their service-level deadline and drives each through a
// one-way, idempotent escalation state machine. The watchdog holds no
// distributed locks; correctness across replicated instances comes from the
// transition table plus a mandatory re-fetch and re-check before every
// commit.
package sla

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/advisory"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// FallbackExplanation is appended to the timeline when the advisory call
// fails or returns nothing. It is deterministic so operators can tell
// enriched entries from fallback entries at a glance.
const FallbackExplanation = "Escalated automatically after the service-level deadline passed without resolution."

// TickResult summarizes one scan cycle.
type TickResult struct {
	Scanned    int      `json:"scanned"`
	Escalated  int      `json:"escalated"`
	UpdatedIDs []string `json:"updated_ids"`
}

// Dependencies bundles collaborators for the watchdog.
type Dependencies struct {
	Complaints repository.ComplaintRepository
	Timeline   repository.TimelineRepository
	Audit      repository.AuditRepository
	Advisor    advisory.Advisor
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// Watchdog owns the periodic scan-and-escalate cycle.
type Watchdog struct {
	cfg             config.SLAConfig
	advisoryTimeout time.Duration

	complaints repository.ComplaintRepository
	timeline   repository.TimelineRepository
	audits     repository.AuditRepository
	advisor    advisory.Advisor
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger

	// now is injected for tests; production uses time.Now.
	now func() time.Time

	// ticking guards against overlapping cycles within this process. It is
	// reset on every exit path of Tick.
	ticking atomic.Bool

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

// NewWatchdog constructs the watchdog. Interval and extension behavior are
// resolved from cfg once here, never re-read per tick.
func NewWatchdog(cfg config.SLAConfig, advisoryCfg config.AdvisoryConfig, deps Dependencies) *Watchdog {
	return &Watchdog{
		cfg:             cfg,
		advisoryTimeout: advisoryCfg.Timeout(),
		complaints:      deps.Complaints,
		timeline:        deps.Timeline,
		audits:          deps.Audit,
		advisor:         deps.Advisor,
		dispatcher:      deps.Dispatcher,
		metrics:         deps.Metrics,
		logger:          deps.Logger,
		now:             time.Now,
	}
}

// Start schedules the recurring scan: one single-shot fire after a randomized
// jitter, then a fixed-period ticker. Calling Start while already running is
// a no-op; the held timer handle is the running marker.
func (w *Watchdog) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		return
	}

	jitter := startJitter()
	done := make(chan struct{})
	w.done = done
	w.timer = time.AfterFunc(jitter, func() {
		w.runCycle()
		ticker := time.NewTicker(w.cfg.TickInterval())
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				w.runCycle()
			}
		}
	})

	w.logger.Info("sla watchdog started",
		zap.Duration("jitter", jitter),
		zap.Duration("interval", w.cfg.TickInterval()),
		zap.Duration("extension", w.cfg.DeadlineExtension()))
}

// Stop cancels the recurring scan. Safe to call multiple times.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer == nil {
		return
	}
	w.timer.Stop()
	close(w.done)
	w.timer = nil
	w.done = nil
	w.logger.Info("sla watchdog stopped")
}

// Running reports whether the recurring scan is scheduled.
func (w *Watchdog) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.timer != nil
}

// startJitter spreads first fires across replicated instances.
func startJitter() time.Duration {
	return 500*time.Millisecond + time.Duration(rand.IntN(2000))*time.Millisecond
}

// runCycle executes one tick and swallows every failure: a failed cycle must
// never stop future scheduled cycles.
func (w *Watchdog) runCycle() {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("scan cycle panicked", zap.Any("panic", r))
		}
	}()
	if _, err := w.Tick(context.Background()); err != nil {
		w.logger.Error("scan cycle failed", zap.Error(err))
	}
}

// Tick runs one scan cycle and returns the scan/escalation counts. It is a
// no-op returning zeros while a previous invocation is still in flight on
// this process. Tick is also invoked out-of-band via the manual trigger
// endpoint.
func (w *Watchdog) Tick(ctx context.Context) (TickResult, error) {
	if !w.ticking.CompareAndSwap(false, true) {
		w.logger.Debug("previous scan cycle still in flight; skipping")
		return TickResult{}, nil
	}
	defer w.ticking.Store(false)

	cycleStart := w.now()

	page, err := w.complaints.ListActive(ctx, domain.ActiveStatuses, w.cfg.PageLimit())
	if err != nil {
		// Full-cycle failure: the next scheduled tick is the retry.
		return TickResult{}, fmt.Errorf("scan query: %w", err)
	}

	result := TickResult{Scanned: len(page)}
	var enrichments []advisory.Request

	for i := range page {
		if !IsOverdue(&page[i], cycleStart) {
			continue
		}
		item, ok := w.processOverdue(ctx, page[i].ID)
		if !ok {
			continue
		}
		result.Escalated++
		result.UpdatedIDs = append(result.UpdatedIDs, item.ComplaintID)
		enrichments = append(enrichments, item)
	}

	w.metrics.RecordCycle(result.Escalated)

	// Advisory enrichment runs detached: its latency or failure never
	// delays this cycle's return value or touches the committed state.
	for _, item := range enrichments {
		go w.enrichOne(item)
	}

	return result, nil
}

// processOverdue re-validates and escalates a single complaint. Every error
// is logged and skips only this complaint, never the rest of the batch.
func (w *Watchdog) processOverdue(ctx context.Context, id string) (advisory.Request, bool) {
	// Re-fetch the authoritative record: the bulk query page may be stale,
	// and a complaint resolved since then must be skipped.
	fresh, err := w.complaints.GetByID(ctx, id)
	if err != nil {
		w.logger.Warn("re-fetch failed", zap.String("complaint_id", id), zap.Error(err))
		return advisory.Request{}, false
	}
	if IsTerminal(fresh.Status) {
		return advisory.Request{}, false
	}

	// Re-check against a fresh "now" immediately before commit.
	commitNow := w.now()
	if !IsOverdue(fresh, commitNow) {
		return advisory.Request{}, false
	}

	transition, ok := NextTransition(fresh.Status)
	if !ok {
		return advisory.Request{}, false
	}

	newDeadline := commitNow.Add(w.cfg.DeadlineExtension())
	update := repository.SLAUpdate{
		Status:          transition.NextStatus,
		EscalationLevel: transition.NextLevel,
		NewDeadline:     newDeadline,
		UpdatedAt:       commitNow,
	}
	if err := w.complaints.UpdateSLAFields(ctx, fresh.ID, update); err != nil {
		w.logger.Error("escalation update failed",
			zap.String("complaint_id", fresh.ID),
			zap.String("next_status", string(transition.NextStatus)),
			zap.Error(err))
		return advisory.Request{}, false
	}

	// The timeline and audit appends are best-effort observability, not the
	// source of truth. Their failures are logged distinctly so operators can
	// see the gap, but the committed transition stands.
	event := &domain.TimelineEvent{
		ComplaintID: fresh.ID,
		Type:        domain.TimelineTypeSystem,
		Action:      transition.Action,
		Message:     transition.Message,
	}
	if err := w.timeline.Append(ctx, event); err != nil {
		w.metrics.RecordPartialWriteFailure()
		w.logger.Error("timeline append failed after committed escalation",
			zap.String("complaint_id", fresh.ID), zap.Error(err))
	}

	entry := &domain.AuditEntry{
		ComplaintID: fresh.ID,
		Actor:       domain.ActorSystem,
		OldStatus:   fresh.Status,
		NewStatus:   transition.NextStatus,
		OldLevel:    fresh.EscalationLevel,
		NewLevel:    transition.NextLevel,
		OldDeadline: fresh.SLADeadline,
		NewDeadline: &newDeadline,
		CreatedAt:   commitNow,
	}
	if err := w.audits.Append(ctx, entry); err != nil {
		w.metrics.RecordPartialWriteFailure()
		w.logger.Error("audit append failed after committed escalation",
			zap.String("complaint_id", fresh.ID), zap.Error(err))
	}

	w.publishEscalation(ctx, fresh, transition, newDeadline)

	w.logger.Info("complaint escalated",
		zap.String("complaint_id", fresh.ID),
		zap.String("old_status", string(fresh.Status)),
		zap.String("new_status", string(transition.NextStatus)),
		zap.Int("level", transition.NextLevel))

	return advisory.Request{
		ComplaintID:    fresh.ID,
		Department:     effectiveDepartment(fresh),
		Severity:       fresh.Severity,
		Status:         transition.NextStatus,
		ElapsedSeconds: int64(commitNow.Sub(fresh.CreatedAt).Seconds()),
	}, true
}

// enrichOne requests an advisory justification for one escalation and
// appends it to the timeline; on any failure it appends the deterministic
// fallback under a distinct action tag.
func (w *Watchdog) enrichOne(req advisory.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), w.advisoryTimeout)
	defer cancel()

	action := domain.TimelineActionAIExplanation
	message, err := w.advisor.ExplainEscalation(ctx, req)
	if err != nil || message == "" {
		if err != nil {
			w.logger.Warn("advisory call failed; using fallback",
				zap.String("complaint_id", req.ComplaintID), zap.Error(err))
		}
		action = domain.TimelineActionAIFallback
		message = FallbackExplanation
		w.metrics.RecordAdvisoryFallback()
	}

	event := &domain.TimelineEvent{
		ComplaintID: req.ComplaintID,
		Type:        domain.TimelineTypeSystem,
		Action:      action,
		Message:     message,
	}
	if err := w.timeline.Append(ctx, event); err != nil {
		w.logger.Error("enrichment timeline append failed",
			zap.String("complaint_id", req.ComplaintID), zap.Error(err))
	}
}

func (w *Watchdog) publishEscalation(ctx context.Context, c *domain.Complaint, t Transition, newDeadline time.Time) {
	if w.dispatcher == nil {
		return
	}
	_ = w.dispatcher.Publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventSLAEscalation,
		ComplaintID: c.ID,
		Actor:       domain.ActorSystem,
		Timestamp:   w.now(),
		Payload: events.SLAEscalationPayload{
			OldStatus:       c.Status,
			NewStatus:       t.NextStatus,
			EscalationLevel: t.NextLevel,
			NewDeadline:     newDeadline,
		},
	})
}

func effectiveDepartment(c *domain.Complaint) string {
	if c.AssignedDepartment != nil && *c.AssignedDepartment != "" {
		return *c.AssignedDepartment
	}
	return c.Department
}
