package loader

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/api"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/calendar"
)

// gatedFetcher blocks each call until the test releases its range.
type gatedFetcher struct {
	mu      sync.Mutex
	gates   map[time.Time]chan api.EventsResult
	entered chan time.Time
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{
		gates:   make(map[time.Time]chan api.EventsResult),
		entered: make(chan time.Time, 8),
	}
}

func (f *gatedFetcher) gate(start time.Time) chan api.EventsResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.gates[start]
	if !ok {
		ch = make(chan api.EventsResult, 1)
		f.gates[start] = ch
	}
	return ch
}

// Events ignores cancellation on purpose so that a superseded request still
// produces a late, successful result.
func (f *gatedFetcher) Events(_ context.Context, start, _ time.Time) (api.EventsResult, error) {
	f.entered <- start
	return <-f.gate(start), nil
}

type fetchFunc func(ctx context.Context, start, end time.Time) (api.EventsResult, error)

func (f fetchFunc) Events(ctx context.Context, start, end time.Time) (api.EventsResult, error) {
	return f(ctx, start, end)
}

func monthRange(year int, month time.Month) (time.Time, time.Time) {
	grid := calendar.ComputeGrid(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), calendar.Sunday, time.Time{}, time.Time{}, nil)
	return calendar.VisibleRange(grid)
}

func TestLastRequestWins(t *testing.T) {
	f := newGatedFetcher()
	l := New(f, WithLocation(time.UTC))

	m1Start, m1End := monthRange(2025, time.October)
	m2Start, m2End := monthRange(2025, time.November)

	r1 := l.Load(context.Background(), m1Start, m1End)
	m1Result := make(chan Result, 1)
	go func() { m1Result <- r1.Run() }()
	<-f.entered

	r2 := l.Load(context.Background(), m2Start, m2End)
	m2Result := make(chan Result, 1)
	go func() { m2Result <- r2.Run() }()
	<-f.entered

	// M2 resolves first, then the slower M1.
	f.gate(m2Start) <- api.EventsResult{Records: []calendar.Record{{ID: "m2", Start: "2025-11-12T10:00:00Z"}}}
	if !l.Apply(<-m2Result) {
		t.Fatalf("M2 result should apply")
	}
	f.gate(m1Start) <- api.EventsResult{Records: []calendar.Record{{ID: "m1", Start: "2025-10-12T10:00:00Z"}}}
	if l.Apply(<-m1Result) {
		t.Fatalf("late M1 result must not apply")
	}

	snap := l.Snapshot()
	if snap.State != Loaded {
		t.Fatalf("expected loaded, got %s", snap.State)
	}
	if !snap.Range.Start.Equal(m2Start) {
		t.Fatalf("expected M2 range, got %s", snap.Range)
	}
	if len(snap.Events) != 1 || snap.Events[0].ID != "m2" {
		t.Fatalf("expected only M2 events, got %+v", snap.Events)
	}
}

func TestStaleResultAfterNewerLoadIsDropped(t *testing.T) {
	f := newGatedFetcher()
	l := New(f, WithLocation(time.UTC))

	m1Start, m1End := monthRange(2025, time.October)
	m2Start, m2End := monthRange(2025, time.November)

	r1 := l.Load(context.Background(), m1Start, m1End)
	f.gate(m1Start) <- api.EventsResult{Records: []calendar.Record{{ID: "m1", Start: "2025-10-12T10:00:00Z"}}}
	late := r1.Run()
	if late.Err != nil || len(late.Events) != 1 {
		t.Fatalf("expected M1 to resolve, got %v", late.Err)
	}

	l.Load(context.Background(), m2Start, m2End)
	if l.Apply(late) {
		t.Fatalf("M1 resolved after M2 was issued and must be dropped")
	}
	snap := l.Snapshot()
	if snap.State != Loading || len(snap.Events) != 0 {
		t.Fatalf("expected a clean loading state for M2, got %s with %d events", snap.State, len(snap.Events))
	}
}

func TestLoadCancelsPreviousContext(t *testing.T) {
	started := make(chan struct{})
	var firstCtx context.Context
	f := fetchFunc(func(ctx context.Context, start, end time.Time) (api.EventsResult, error) {
		if firstCtx == nil {
			firstCtx = ctx
			close(started)
			<-ctx.Done()
			return api.EventsResult{}, &api.TransportError{Op: "list events", Err: ctx.Err()}
		}
		return api.EventsResult{}, nil
	})
	l := New(f)

	r1 := l.Load(context.Background(), time.Now(), time.Now().Add(time.Hour))
	done := make(chan Result, 1)
	go func() { done <- r1.Run() }()
	<-started

	l.Load(context.Background(), time.Now(), time.Now().Add(2*time.Hour))
	select {
	case res := <-done:
		if !errors.Is(res.Err, context.Canceled) {
			t.Fatalf("expected cancellation, got %v", res.Err)
		}
		if l.Apply(res) {
			t.Fatalf("cancelled result must not apply")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("previous request was not cancelled")
	}
}

func TestFailureClassification(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		kind      FailureKind
		retry     bool
		reconnect bool
	}{
		{"transport", &api.TransportError{Op: "list events", Err: errors.New("connection refused")}, FailureTransport, true, false},
		{"http", &api.HTTPError{Op: "list events", StatusCode: http.StatusBadGateway}, FailureTransport, true, false},
		{"auth", &api.AuthRequiredError{Op: "list events", Detail: "Google Calendar is not authenticated", LoginURL: "http://x/auth/google/login"}, FailureAuthRequired, false, true},
		{"malformed", &api.MalformedResponseError{Op: "list events", Reason: `missing "events"`}, FailureMalformed, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := New(fetchFunc(func(context.Context, time.Time, time.Time) (api.EventsResult, error) {
				return api.EventsResult{}, tc.err
			}))
			snap := l.LoadAndWait(context.Background(), time.Now(), time.Now().Add(time.Hour))
			if snap.State != Failed || snap.Failure == nil {
				t.Fatalf("expected failed state, got %s", snap.State)
			}
			if snap.Failure.Kind != tc.kind {
				t.Fatalf("kind: got %s want %s", snap.Failure.Kind, tc.kind)
			}
			if snap.Failure.Retriable() != tc.retry || snap.Failure.NeedsReconnect() != tc.reconnect {
				t.Fatalf("affordances: retry=%v reconnect=%v", snap.Failure.Retriable(), snap.Failure.NeedsReconnect())
			}
			if snap.Failure.Reason == "" {
				t.Fatalf("expected a reason")
			}
			if len(snap.Events) != 0 {
				t.Fatalf("failure must not carry events")
			}
		})
	}
	if got := Classify(&api.AuthRequiredError{LoginURL: "http://x/login"}).LoginURL; got != "http://x/login" {
		t.Fatalf("login url: %q", got)
	}
}

func TestLoadingClearsPreviousRange(t *testing.T) {
	calls := 0
	l := New(fetchFunc(func(context.Context, time.Time, time.Time) (api.EventsResult, error) {
		calls++
		if calls == 1 {
			return api.EventsResult{Records: []calendar.Record{{ID: "a", Start: "2025-11-03T09:00:00Z"}}}, nil
		}
		return api.EventsResult{}, &api.HTTPError{Op: "list events", StatusCode: 500}
	}), WithLocation(time.UTC))

	snap := l.LoadAndWait(context.Background(), time.Now(), time.Now().Add(time.Hour))
	if snap.State != Loaded || len(snap.Events) != 1 {
		t.Fatalf("expected one event loaded, got %s/%d", snap.State, len(snap.Events))
	}

	l.Load(context.Background(), time.Now(), time.Now().Add(time.Hour))
	loading := l.Snapshot()
	if loading.State != Loading || loading.Events != nil || loading.Failure != nil {
		t.Fatalf("loading must clear events and failure: %+v", loading)
	}
	if snap.Events == nil {
		t.Fatalf("earlier snapshot must be unaffected")
	}
}

func TestRunNormalizesSortsAndIndexes(t *testing.T) {
	l := New(fetchFunc(func(context.Context, time.Time, time.Time) (api.EventsResult, error) {
		return api.EventsResult{Records: []calendar.Record{
			{ID: "late", Start: "2025-11-03T17:00:00Z"},
			{ID: "bad", Start: "tomorrow"},
			{ID: "early", Start: "2025-11-03T08:00:00Z"},
		}}, nil
	}), WithLocation(time.UTC))

	snap := l.LoadAndWait(context.Background(), time.Now(), time.Now().Add(time.Hour))
	if len(snap.Rejected) != 1 || snap.Rejected[0].ID != "bad" {
		t.Fatalf("expected the bad record rejected, got %+v", snap.Rejected)
	}
	day := snap.Index.On("2025-11-03")
	if len(day) != 2 || day[0].ID != "early" || day[1].ID != "late" {
		t.Fatalf("expected chronological bucket, got %+v", day)
	}
	if snap.Empty() {
		t.Fatalf("snapshot is not empty")
	}
}

func TestCancelReturnsToIdle(t *testing.T) {
	f := newGatedFetcher()
	l := New(f)
	start := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)
	req := l.Load(context.Background(), start, start.AddDate(0, 1, 0))
	l.Cancel()
	if l.Snapshot().State != Idle {
		t.Fatalf("expected idle after cancel")
	}
	f.gate(start) <- api.EventsResult{}
	if l.Apply(req.Run()) {
		t.Fatalf("result of a cancelled request must not apply")
	}
}
