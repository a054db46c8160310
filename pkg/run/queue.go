package run

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/flickergrid/flickergrid/pkg/design"
	"github.com/flickergrid/flickergrid/pkg/errors"
)

// Values of [Status.CurrentTask].
const (
	TaskIdle  = "IDLE"
	TaskSSVEP = "SSVEP"
)

// Task is an accepted run waiting for, or being shown on, the display.
type Task struct {
	ID          string         `json:"id"`
	Request     Request        `json:"request"`
	Patches     []design.Patch `json:"patches"`
	Cues        []string       `json:"cues"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

// Event is something that happened while a task was presented.
type Event struct {
	Kind   string  `json:"kind"`
	Detail string  `json:"detail"`
	Passed float64 `json:"passed"`
}

func (e Event) String() string {
	return fmt.Sprintf("(%s, %s, %.2f)", e.Kind, e.Detail, e.Passed)
}

// Status is the display state polled by the front end. EventBuffer holds the
// events of one finished task and is handed out once.
type Status struct {
	TasksInBuffer int     `json:"tasksInBuffer"`
	Passed        float64 `json:"passed"`
	Total         float64 `json:"total"`
	CurrentTask   string  `json:"currentTask"`
	EventBuffer   string  `json:"eventBuffer"`
}

// Presenter shows a task. It returns when the task is over or ctx is done.
type Presenter interface {
	Present(ctx context.Context, t Task) ([]Event, error)
}

// PresenterFunc adapts a function to [Presenter].
type PresenterFunc func(ctx context.Context, t Task) ([]Event, error)

func (f PresenterFunc) Present(ctx context.Context, t Task) ([]Event, error) {
	return f(ctx, t)
}

// QueueOption configures a [Queue].
type QueueOption func(*Queue)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) QueueOption {
	return func(q *Queue) { q.now = now }
}

// WithRand sets the source used for "!Random" cues.
func WithRand(r *rand.Rand) QueueOption {
	return func(q *Queue) { q.rng = r }
}

// WithLogger sets the queue logger.
func WithLogger(l *log.Logger) QueueOption {
	return func(q *Queue) { q.logger = l }
}

// Queue holds accepted runs in submission order.
type Queue struct {
	mu       sync.Mutex
	pending  []Task
	current  *Task
	started  time.Time
	finished [][]Event
	wake     chan struct{}

	now    func() time.Time
	rng    *rand.Rand
	logger *log.Logger
}

// NewQueue returns an empty queue.
func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{
		wake:   make(chan struct{}, 1),
		now:    time.Now,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, o := range opts {
		o(q)
	}
	if q.rng == nil {
		seed := uint64(q.now().UnixNano())
		q.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return q
}

// Submit validates r, plans its cues and appends it to the queue. Invalid
// requests return [errors.FieldErrors].
func (q *Queue) Submit(r Request) (Task, error) {
	if fe := r.Validate(); !fe.Empty() {
		return Task{}, fe
	}
	patches, err := design.ParseSpectral(r.DesignText)
	if err != nil {
		return Task{}, err
	}
	pids := make([]string, len(patches))
	for i, p := range patches {
		pids[i] = p.PID
	}

	q.mu.Lock()
	t := Task{
		ID:          uuid.NewString(),
		Request:     r,
		Patches:     patches,
		Cues:        PlanCues(r.Cue, pids, r.TrialRepeats, q.rng),
		SubmittedAt: q.now(),
	}
	q.pending = append(q.pending, t)
	n := len(q.pending)
	q.mu.Unlock()

	q.logger.Info("run queued", "id", t.ID, "patches", len(patches), "repeats", r.TrialRepeats, "position", n)
	select {
	case q.wake <- struct{}{}:
	default:
	}
	return t, nil
}

// Len returns the number of tasks waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Status reports the current task and hands out the oldest unread event log.
func (q *Queue) Status() Status {
	q.mu.Lock()
	defer q.mu.Unlock()

	s := Status{TasksInBuffer: len(q.pending), CurrentTask: TaskIdle, Passed: -1}
	if q.current != nil {
		s.CurrentTask = TaskSSVEP
		s.Passed = q.now().Sub(q.started).Seconds()
		s.Total = q.current.Request.TotalLength()
	}
	if len(q.finished) > 0 {
		lines := make([]string, len(q.finished[0]))
		for i, e := range q.finished[0] {
			lines[i] = e.String()
		}
		s.EventBuffer = strings.Join(lines, "\n")
		q.finished = q.finished[1:]
	}
	return s
}

// Run presents queued tasks one at a time until ctx is done. A task that
// fails is logged and dropped.
func (q *Queue) Run(ctx context.Context, p Presenter) error {
	for {
		t, ok := q.next()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-q.wake:
				continue
			}
		}

		q.logger.Info("run started", "id", t.ID, "total", t.Request.TotalLength())
		events, err := p.Present(ctx, t)
		q.finish(events)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			q.logger.Error("run failed", "id", t.ID, "error", err)
			continue
		}
		q.logger.Info("run finished", "id", t.ID, "events", len(events))
	}
}

func (q *Queue) next() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return Task{}, false
	}
	t := q.pending[0]
	q.pending = q.pending[1:]
	q.current = &t
	q.started = q.now()
	return t, true
}

func (q *Queue) finish(events []Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.current = nil
	q.finished = append(q.finished, events)
}

// Timed is a [Presenter] that walks a task's trials on the wall clock
// without drawing anything, recording one event per trial. Speed > 1 runs
// faster than real time.
type Timed struct {
	Speed float64
}

func (p Timed) Present(ctx context.Context, t Task) ([]Event, error) {
	speed := p.Speed
	if speed <= 0 {
		speed = 1
	}
	length := t.Request.TrialLength()
	if length <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidRun, "trial length must be positive")
	}

	var events []Event
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C
	for i, cue := range t.Cues {
		if cue == "" {
			cue = design.CueNone
		}
		events = append(events, Event{Kind: "trial", Detail: cue, Passed: float64(i) * length})
		timer.Reset(time.Duration(length / speed * float64(time.Second)))
		select {
		case <-ctx.Done():
			return events, ctx.Err()
		case <-timer.C:
		}
	}
	events = append(events, Event{Kind: "finished", Detail: t.ID, Passed: t.Request.TotalLength()})
	return events, nil
}
