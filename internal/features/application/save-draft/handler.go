// internal/features/application/save-draft/handler.go
package savedraft

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"membership-portal/internal/common/config"
	"membership-portal/internal/common/logger"
	"membership-portal/internal/common/metrics"
	applicationstore "membership-portal/internal/features/data-access/application-store"
	"membership-portal/internal/models"
)

const (
	FeatureName = "save-draft"
)

// DraftWriter is the part of the application store drafts are written through.
type DraftWriter interface {
	Merge(ctx context.Context, id string, doc map[string]interface{}) error
}

type timer interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) timer

func realAfterFunc(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}

type pendingDraft struct {
	app   models.Application
	seq   uint64
	timer timer
}

// writeSlot serialises writes for one identity. written is the sequence
// number of the newest snapshot already sent to the store.
type writeSlot struct {
	mu      sync.Mutex
	written uint64
	refs    int
}

// Handler debounces draft writes per identity. Each Schedule call replaces
// the pending snapshot and restarts the quiet period; only the latest
// snapshot is written when the period elapses.
type Handler struct {
	config    *Config
	store     DraftWriter
	logger    logger.Logger
	afterFunc afterFunc

	mu      sync.Mutex
	pending map[string]*pendingDraft
	slots   map[string]*writeSlot
	seq     uint64
	closed  bool
	writes  sync.WaitGroup
}

func NewHandler(config *Config, store DraftWriter, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig(defaultFormConfig)
	}
	return &Handler{
		config:    config,
		store:     store,
		logger:    log.WithFields(map[string]interface{}{"feature": FeatureName}),
		afterFunc: realAfterFunc,
		pending:   make(map[string]*pendingDraft),
		slots:     make(map[string]*writeSlot),
	}
}

var defaultFormConfig = config.FormConfig{}

// Schedule stores app as the latest snapshot for identity and restarts the
// quiet period. Records without an email are not saved.
func (h *Handler) Schedule(identity models.Identity, app models.Application) bool {
	if app.Email == "" || identity.UID == "" {
		h.logger.Debug("draft skipped, no email", map[string]interface{}{"uid": identity.UID})
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}

	p, ok := h.pending[identity.UID]
	if ok {
		p.timer.Stop()
	} else {
		p = &pendingDraft{}
		h.pending[identity.UID] = p
		metrics.DraftsPending.Inc()
	}

	h.seq++
	seq := h.seq
	uid := identity.UID
	p.app = app
	p.seq = seq
	p.timer = h.afterFunc(h.config.Debounce, func() { h.fire(uid, seq) })
	return true
}

func (h *Handler) fire(uid string, seq uint64) {
	h.mu.Lock()
	p, ok := h.pending[uid]
	if !ok || p.seq != seq {
		// superseded by a newer snapshot, or flushed
		h.mu.Unlock()
		return
	}
	delete(h.pending, uid)
	metrics.DraftsPending.Dec()
	slot := h.acquireSlot(uid)
	h.writes.Add(1)
	h.mu.Unlock()

	defer h.writes.Done()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.WriteTimeout)
	defer cancel()

	// auto-save failures are never surfaced to the applicant
	_ = h.writeInOrder(ctx, uid, slot, p)
}

// acquireSlot must be called with h.mu held.
func (h *Handler) acquireSlot(uid string) *writeSlot {
	slot, ok := h.slots[uid]
	if !ok {
		slot = &writeSlot{}
		h.slots[uid] = slot
	}
	slot.refs++
	return slot
}

func (h *Handler) releaseSlot(uid string, slot *writeSlot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(h.slots, uid)
	}
}

// writeInOrder writes p once every earlier write for uid has returned. A
// snapshot older than one already written is dropped.
func (h *Handler) writeInOrder(ctx context.Context, uid string, slot *writeSlot, p *pendingDraft) error {
	defer h.releaseSlot(uid, slot)

	slot.mu.Lock()
	defer slot.mu.Unlock()

	if p.seq <= slot.written {
		h.logger.Debug("draft superseded before write", map[string]interface{}{"uid": uid})
		return nil
	}
	slot.written = p.seq
	return h.write(ctx, uid, p.app)
}

func (h *Handler) write(ctx context.Context, uid string, app models.Application) error {
	err := h.store.Merge(ctx, uid, app.DraftDocument())
	if err == nil {
		metrics.DraftsSaved.Inc()
		h.logger.Debug("draft saved", map[string]interface{}{"uid": uid})
		return nil
	}

	metrics.DraftSaveFailures.Inc()
	fields := map[string]interface{}{"uid": uid, "error": err.Error()}
	if errors.Is(err, applicationstore.ErrAlreadySubmitted) {
		h.logger.Warn("draft rejected, application already submitted", fields)
	} else {
		h.logger.Error("draft save failed", fields)
	}
	return err
}

// Pending returns the unsaved snapshot for uid, if any.
func (h *Handler) Pending(uid string) (*models.Application, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.pending[uid]
	if !ok {
		return nil, false
	}
	app := p.app
	return &app, true
}

// take must be called with h.mu held.
func (h *Handler) take(uid string) (*pendingDraft, bool) {
	p, ok := h.pending[uid]
	if !ok {
		return nil, false
	}
	p.timer.Stop()
	delete(h.pending, uid)
	metrics.DraftsPending.Dec()
	return p, true
}

// Flush writes the pending snapshot for uid now, after any write for uid
// already in flight.
func (h *Handler) Flush(ctx context.Context, uid string) error {
	h.mu.Lock()
	p, ok := h.take(uid)
	if !ok {
		h.mu.Unlock()
		return nil
	}
	slot := h.acquireSlot(uid)
	h.mu.Unlock()

	return h.writeInOrder(ctx, uid, slot, p)
}

// Cancel drops the pending snapshot for uid without writing it.
func (h *Handler) Cancel(uid string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.take(uid)
	return ok
}

// Close stops accepting snapshots, writes every pending one and waits for
// in-flight writes.
func (h *Handler) Close(ctx context.Context) error {
	h.mu.Lock()
	h.closed = true
	drafts := h.pending
	h.pending = make(map[string]*pendingDraft)
	slots := make(map[string]*writeSlot, len(drafts))
	for uid := range drafts {
		metrics.DraftsPending.Dec()
		slots[uid] = h.acquireSlot(uid)
	}
	h.mu.Unlock()

	var errs []error
	for uid, p := range drafts {
		p.timer.Stop()
		if err := h.writeInOrder(ctx, uid, slots[uid], p); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", uid, err))
		}
	}

	done := make(chan struct{})
	go func() {
		h.writes.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		errs = append(errs, ctx.Err())
	}

	if len(drafts) > 0 {
		h.logger.Info("pending drafts flushed", map[string]interface{}{
			"count":  len(drafts),
			"errors": len(errs),
		})
	}
	return errors.Join(errs...)
}

// Execute schedules the snapshot in input.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	out := &Output{DebounceMs: h.config.Debounce.Milliseconds()}
	if input.Application.Email == "" {
		out.Reason = ReasonNoEmail
		return out, nil
	}
	out.Scheduled = h.Schedule(input.Identity, input.Application)
	if !out.Scheduled {
		out.Reason = ReasonClosed
	}
	return out, nil
}
