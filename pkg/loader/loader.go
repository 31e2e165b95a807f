// Package loader fetches calendar ranges for the view. At most one request is
// live per Loader; issuing a new one cancels the previous, and a result is
// only applied if it belongs to the latest request.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/api"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/calendar"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/logging"
)

// Fetcher is the range query the loader drives. *api.Client satisfies it.
type Fetcher interface {
	Events(ctx context.Context, start, end time.Time) (api.EventsResult, error)
}

// State is the loader's lifecycle.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// FailureKind decides which affordance a failure offers.
type FailureKind int

const (
	// FailureTransport covers network errors, timeouts and non-2xx replies.
	FailureTransport FailureKind = iota
	// FailureAuthRequired means the calendar account must be reconnected.
	FailureAuthRequired
	// FailureMalformed means the reply lacked required fields.
	FailureMalformed
)

func (k FailureKind) String() string {
	switch k {
	case FailureAuthRequired:
		return "auth-required"
	case FailureMalformed:
		return "malformed"
	default:
		return "transport"
	}
}

// Failure is a classified load error.
type Failure struct {
	Kind     FailureKind
	Reason   string
	LoginURL string
	Err      error
}

// Retriable reports whether retrying the same range may help.
func (f Failure) Retriable() bool { return f.Kind != FailureAuthRequired }

// NeedsReconnect reports whether the user has to relink their account.
func (f Failure) NeedsReconnect() bool { return f.Kind == FailureAuthRequired }

// Classify maps an api error onto a Failure.
func Classify(err error) Failure {
	f := Failure{Kind: FailureTransport, Reason: api.Reason(err), Err: err}
	var (
		ae *api.AuthRequiredError
		me *api.MalformedResponseError
	)
	switch {
	case errors.As(err, &ae):
		f.Kind = FailureAuthRequired
		f.LoginURL = ae.LoginURL
	case errors.As(err, &me):
		f.Kind = FailureMalformed
	}
	return f
}

// Range is a half-open [Start, End) window.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}

// Snapshot is the loader state at one point. Each transition builds a new
// Snapshot; readers never see one change underneath them.
type Snapshot struct {
	State    State
	Range    Range
	Request  uint64
	Events   []calendar.Event
	Index    calendar.EventIndex
	Rejected []calendar.Rejected
	Failure  *Failure
}

// Empty reports a successful load with no events.
func (s Snapshot) Empty() bool { return s.State == Loaded && len(s.Events) == 0 }

// Request is one issued range load.
type Request struct {
	Seq   uint64
	Range Range

	ctx     context.Context
	fetcher Fetcher
	loc     *time.Location
}

// Result is the outcome of Request.Run, handed back to Apply.
type Result struct {
	Seq      uint64
	Range    Range
	Events   []calendar.Event
	Index    calendar.EventIndex
	Rejected []calendar.Rejected
	Err      error
}

// Run performs the fetch and derives the render model. It blocks and is meant
// to run off the UI loop.
func (r *Request) Run() Result {
	res := Result{Seq: r.Seq, Range: r.Range}
	if err := r.ctx.Err(); err != nil {
		res.Err = &api.TransportError{Op: "list events", Err: err}
		return res
	}
	out, err := r.fetcher.Events(r.ctx, r.Range.Start, r.Range.End)
	if err != nil {
		res.Err = err
		return res
	}
	events, rejected := calendar.Normalize(out.Records, r.loc)
	events = calendar.SortByStart(events)
	res.Events = events
	res.Index = calendar.IndexEvents(events, r.loc)
	res.Rejected = rejected
	return res
}

// Loader owns the range state for one consumer. It is not safe for
// concurrent use; the UI loop is its only caller.
type Loader struct {
	fetcher Fetcher
	loc     *time.Location
	log     *slog.Logger

	seq    uint64
	cancel context.CancelFunc
	snap   Snapshot
}

// Option configures a Loader.
type Option func(*Loader)

// WithLocation sets the viewer's time zone used for day bucketing.
func WithLocation(loc *time.Location) Option {
	return func(l *Loader) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.log = logging.Component(logger, "loader") }
}

// New creates an idle loader.
func New(f Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher: f,
		loc:     time.Local,
		log:     logging.Component(nil, "loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Snapshot returns the current state.
func (l *Loader) Snapshot() Snapshot { return l.snap }

// Location is the time zone events are bucketed in.
func (l *Loader) Location() *time.Location { return l.loc }

// Load cancels any in-flight request and issues a new one for [start, end).
// The loader enters Loading immediately with the previous range cleared.
func (l *Loader) Load(ctx context.Context, start, end time.Time) *Request {
	l.cancelInFlight()
	l.seq++

	reqCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	rng := Range{Start: start, End: end}
	l.snap = Snapshot{State: Loading, Range: rng, Request: l.seq}
	l.log.Debug("load issued", "seq", l.seq, "range", rng.String())

	return &Request{Seq: l.seq, Range: rng, ctx: reqCtx, fetcher: l.fetcher, loc: l.loc}
}

// Apply installs res if it answers the latest live request. Stale or
// cancelled results are dropped and Apply reports false.
func (l *Loader) Apply(res Result) bool {
	if res.Seq != l.seq || l.snap.State != Loading {
		l.log.Debug("stale result dropped", "seq", res.Seq, "current", l.seq)
		return false
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}

	if res.Err != nil {
		f := Classify(res.Err)
		l.snap = Snapshot{State: Failed, Range: res.Range, Request: res.Seq, Failure: &f}
		l.log.Warn("load failed", "seq", res.Seq, "kind", f.Kind.String(), "reason", f.Reason)
		return true
	}

	l.snap = Snapshot{
		State:    Loaded,
		Range:    res.Range,
		Request:  res.Seq,
		Events:   res.Events,
		Index:    res.Index,
		Rejected: res.Rejected,
	}
	for _, r := range res.Rejected {
		l.log.Warn("event rejected", "seq", res.Seq, "err", r.Error())
	}
	l.log.Debug("load applied", "seq", res.Seq, "events", len(res.Events))
	return true
}

// Cancel abandons the in-flight request, if any, and returns to Idle. A late
// result for the cancelled request will not apply.
func (l *Loader) Cancel() {
	if l.snap.State != Loading {
		return
	}
	l.cancelInFlight()
	l.seq++
	l.snap = Snapshot{State: Idle, Range: l.snap.Range, Request: l.seq}
}

func (l *Loader) cancelInFlight() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// LoadAndWait issues a load and applies its result synchronously. Used by
// the CLI, which has no event loop.
func (l *Loader) LoadAndWait(ctx context.Context, start, end time.Time) Snapshot {
	req := l.Load(ctx, start, end)
	l.Apply(req.Run())
	return l.snap
}
