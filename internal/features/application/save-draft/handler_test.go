// internal/features/application/save-draft/handler_test.go
package savedraft

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"membership-portal/internal/common/config"
	"membership-portal/internal/common/logger"
	applicationstore "membership-portal/internal/features/data-access/application-store"
	"membership-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test doubles
// ==========================

type mergeCall struct {
	id  string
	doc map[string]interface{}
}

type recordingWriter struct {
	mu    sync.Mutex
	calls []mergeCall
	err   error
}

func (w *recordingWriter) Merge(_ context.Context, id string, doc map[string]interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, mergeCall{id: id, doc: doc})
	return w.err
}

func (w *recordingWriter) Calls() []mergeCall {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]mergeCall(nil), w.calls...)
}

// blockingWriter holds every write of roll number `block` until release
// is closed, and remembers the last document stored.
type blockingWriter struct {
	block   string
	entered chan struct{}
	release chan struct{}

	mu     sync.Mutex
	last   map[string]interface{}
	writes int
}

func newBlockingWriter(block string) *blockingWriter {
	return &blockingWriter{
		block:   block,
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (w *blockingWriter) Merge(_ context.Context, _ string, doc map[string]interface{}) error {
	if doc[models.FieldRollNumber] == w.block {
		w.entered <- struct{}{}
		<-w.release
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = doc
	w.writes++
	return nil
}

func (w *blockingWriter) Stored() (string, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last == nil {
		return "", w.writes
	}
	roll, _ := w.last[models.FieldRollNumber].(string)
	return roll, w.writes
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) timer {
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Elapse runs every timer that has not been stopped.
func (c *fakeClock) Elapse() {
	for _, t := range c.timers {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

func (c *fakeClock) Active() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

// ==========================
// Test Helper Functions
// ==========================

var asha = models.Identity{UID: "uid-1", DisplayName: "Asha Rao", Email: "asha.rao@somaiya.edu"}

func createTestHandler(t *testing.T, w *recordingWriter) (*Handler, *fakeClock) {
	clock := &fakeClock{}
	h := NewHandler(&Config{Debounce: time.Second, WriteTimeout: time.Second}, w, &testLogger{t: t})
	h.afterFunc = clock.AfterFunc
	return h, clock
}

func draftWithRoll(roll string) models.Application {
	app := models.NewApplication(asha)
	app.RollNumber = roll
	return app
}

// ==========================
// Debounce
// ==========================

func TestSchedule_WritesOnlyLatestSnapshotAfterQuietPeriod(t *testing.T) {
	w := &recordingWriter{}
	h, clock := createTestHandler(t, w)

	assert.True(t, h.Schedule(asha, draftWithRoll("1")))
	assert.True(t, h.Schedule(asha, draftWithRoll("16")))
	assert.True(t, h.Schedule(asha, draftWithRoll("160")))

	assert.Empty(t, w.Calls(), "no write before the quiet period elapses")
	assert.Equal(t, 1, clock.Active())
	assert.Equal(t, time.Second, clock.timers[2].d)

	pending, ok := h.Pending(asha.UID)
	require.True(t, ok)
	assert.Equal(t, "160", pending.RollNumber)

	clock.Elapse()

	calls := w.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "uid-1", calls[0].id)
	assert.Equal(t, "160", calls[0].doc[models.FieldRollNumber])
	assert.NotContains(t, calls[0].doc, models.FieldSubmitted)

	_, ok = h.Pending(asha.UID)
	assert.False(t, ok)
}

func TestSchedule_SupersededCallbackDoesNotWrite(t *testing.T) {
	w := &recordingWriter{}
	h, clock := createTestHandler(t, w)

	h.Schedule(asha, draftWithRoll("1"))
	h.Schedule(asha, draftWithRoll("2"))

	// the first timer fires anyway, as if Stop lost the race
	clock.timers[0].f()
	assert.Empty(t, w.Calls())

	clock.Elapse()
	require.Len(t, w.Calls(), 1)
	assert.Equal(t, "2", w.Calls()[0].doc[models.FieldRollNumber])
}

func TestSchedule_IdentitiesAreIndependent(t *testing.T) {
	w := &recordingWriter{}
	h, clock := createTestHandler(t, w)

	other := models.Identity{UID: "uid-2", Email: "ravi@somaiya.edu"}
	h.Schedule(asha, draftWithRoll("1"))
	h.Schedule(other, models.NewApplication(other))

	assert.Equal(t, 2, clock.Active())
	clock.Elapse()
	assert.Len(t, w.Calls(), 2)
}

func TestSchedule_SkipsRecordWithoutEmail(t *testing.T) {
	w := &recordingWriter{}
	h, clock := createTestHandler(t, w)

	app := draftWithRoll("1")
	app.Email = ""

	assert.False(t, h.Schedule(asha, app))
	assert.Empty(t, clock.timers)

	out, err := h.Execute(context.Background(), &Input{Identity: asha, Application: app})
	require.NoError(t, err)
	assert.False(t, out.Scheduled)
	assert.Equal(t, ReasonNoEmail, out.Reason)
}

func TestSchedule_WriteFailureIsSwallowed(t *testing.T) {
	w := &recordingWriter{err: errors.New("store unavailable")}
	h, clock := createTestHandler(t, w)

	h.Schedule(asha, draftWithRoll("1"))
	assert.NotPanics(t, clock.Elapse)
	assert.Len(t, w.Calls(), 1)
}

func TestSchedule_SlowWriteIsNotOverwrittenOutOfOrder(t *testing.T) {
	w := newBlockingWriter("old")
	clock := &fakeClock{}
	h := NewHandler(&Config{Debounce: time.Second, WriteTimeout: time.Minute}, w, &testLogger{t: t})
	h.afterFunc = clock.AfterFunc

	var wg sync.WaitGroup

	h.Schedule(asha, draftWithRoll("old"))
	first := clock.timers[0]
	wg.Add(1)
	go func() {
		defer wg.Done()
		first.f()
	}()
	<-w.entered

	// the next quiet period elapses while the first write is still running
	h.Schedule(asha, draftWithRoll("new"))
	second := clock.timers[1]
	wg.Add(1)
	go func() {
		defer wg.Done()
		second.f()
	}()

	time.Sleep(50 * time.Millisecond)
	_, writes := w.Stored()
	assert.Equal(t, 0, writes, "newer snapshot waits for the write in flight")

	close(w.release)
	wg.Wait()

	roll, writes := w.Stored()
	assert.Equal(t, "new", roll)
	assert.Equal(t, 2, writes)
}

func TestFlush_WaitsForWriteInFlight(t *testing.T) {
	w := newBlockingWriter("old")
	clock := &fakeClock{}
	h := NewHandler(&Config{Debounce: time.Second, WriteTimeout: time.Minute}, w, &testLogger{t: t})
	h.afterFunc = clock.AfterFunc

	h.Schedule(asha, draftWithRoll("old"))
	first := clock.timers[0]
	done := make(chan struct{})
	go func() {
		defer close(done)
		first.f()
	}()
	<-w.entered

	h.Schedule(asha, draftWithRoll("new"))
	flushed := make(chan error, 1)
	go func() { flushed <- h.Flush(context.Background(), asha.UID) }()

	time.Sleep(50 * time.Millisecond)
	close(w.release)
	<-done
	require.NoError(t, <-flushed)

	roll, _ := w.Stored()
	assert.Equal(t, "new", roll)
}

// ==========================
// Flush / Cancel / Close
// ==========================

func TestFlush(t *testing.T) {
	w := &recordingWriter{}
	h, clock := createTestHandler(t, w)

	require.NoError(t, h.Flush(context.Background(), asha.UID), "nothing pending")

	h.Schedule(asha, draftWithRoll("1"))
	require.NoError(t, h.Flush(context.Background(), asha.UID))
	assert.Len(t, w.Calls(), 1)

	clock.Elapse()
	assert.Len(t, w.Calls(), 1, "flushed snapshot is not written twice")
}

func TestFlush_ReturnsStoreError(t *testing.T) {
	w := &recordingWriter{err: applicationstore.ErrAlreadySubmitted}
	h, _ := createTestHandler(t, w)

	h.Schedule(asha, draftWithRoll("1"))
	err := h.Flush(context.Background(), asha.UID)
	assert.ErrorIs(t, err, applicationstore.ErrAlreadySubmitted)
}

func TestCancel(t *testing.T) {
	w := &recordingWriter{}
	h, clock := createTestHandler(t, w)

	assert.False(t, h.Cancel(asha.UID))

	h.Schedule(asha, draftWithRoll("1"))
	assert.True(t, h.Cancel(asha.UID))

	clock.Elapse()
	assert.Empty(t, w.Calls())
}

func TestClose_FlushesAndStopsAccepting(t *testing.T) {
	w := &recordingWriter{}
	h, _ := createTestHandler(t, w)

	other := models.Identity{UID: "uid-2", Email: "ravi@somaiya.edu"}
	h.Schedule(asha, draftWithRoll("1"))
	h.Schedule(other, models.NewApplication(other))

	require.NoError(t, h.Close(context.Background()))
	assert.Len(t, w.Calls(), 2)

	assert.False(t, h.Schedule(asha, draftWithRoll("2")))
	out, err := h.Execute(context.Background(), &Input{Identity: asha, Application: draftWithRoll("3")})
	require.NoError(t, err)
	assert.Equal(t, ReasonClosed, out.Reason)
}

// ==========================
// Real timer
// ==========================

func TestSchedule_RealTimer(t *testing.T) {
	w := &recordingWriter{}
	h := NewHandler(&Config{Debounce: 50 * time.Millisecond, WriteTimeout: time.Second}, w, logger.NewTestLogger(t))

	for i := 0; i < 3; i++ {
		h.Schedule(asha, draftWithRoll("1"))
		time.Sleep(10 * time.Millisecond)
	}
	assert.Empty(t, w.Calls())

	assert.Eventually(t, func() bool { return len(w.Calls()) == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Len(t, w.Calls(), 1)
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(config.FormConfig{})
	assert.Equal(t, time.Second, cfg.Debounce)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)

	cfg = LoadConfig(config.FormConfig{DraftDebounce: 250, DraftTimeout: 2000})
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 2*time.Second, cfg.WriteTimeout)
}
