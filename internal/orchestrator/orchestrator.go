package orchestrator

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/gitbridge/internal/git"
)

const (
	// debounceDelay is the quiet period before a requested refresh runs.
	debounceDelay = 320 * time.Millisecond

	// rerunDelay is the pause before a refresh requested while another
	// was in flight runs again.
	rerunDelay = 140 * time.Millisecond

	// postTaskRefreshDelay is the pause between a successful mutation and
	// its follow-up refresh, giving git time to settle index locks.
	postTaskRefreshDelay = 80 * time.Millisecond

	// pumpInterval batches queued results before delivery to subscribers.
	pumpInterval = 40 * time.Millisecond

	// defaultPollInterval drives background refreshes of known projects.
	defaultPollInterval = 3500 * time.Millisecond

	// workerCount bounds concurrent git work.
	workerCount = 2

	// subscriberBuffer is each subscriber channel's capacity. Slow
	// subscribers lose events rather than stall the pump.
	subscriberBuffer = 64
)

// StatusReader produces status snapshots. Satisfied by *git.Service.
type StatusReader interface {
	ReadStatus(ctx context.Context, projectRoot string) *git.RepoStatus
}

// task is one unit of work for the pool.
type task struct {
	id   string
	name string
	run  func(ctx context.Context) error
	// refreshRoot, when non-empty, schedules a follow-up status refresh
	// for that project after the task succeeds.
	refreshRoot string
	// internal tasks publish their own events instead of a TaskEvent.
	internal bool
}

// session tracks refresh state for one project root. All fields are
// guarded by the orchestrator mutex.
type session struct {
	deb            *debouncer
	generation     uint64
	inFlight       bool
	requestedAgain bool
}

// Orchestrator schedules refreshes and mutation tasks on a shared worker
// pool and fans results out to subscribers.
type Orchestrator struct {
	reader       StatusReader
	logger       *slog.Logger
	pollInterval time.Duration

	mu       sync.Mutex
	sessions map[string]*session
	subs     map[chan Event]struct{}
	queue    []Event
	closed   bool

	tasks  chan task
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPollInterval overrides the background poll interval. Zero disables
// polling entirely.
func WithPollInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.pollInterval = d
	}
}

// New creates and starts an orchestrator on top of a status reader.
func New(reader StatusReader, opts ...Option) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		reader:       reader,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		pollInterval: defaultPollInterval,
		sessions:     map[string]*session{},
		subs:         map[chan Event]struct{}{},
		tasks:        make(chan task, 128),
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(o)
	}

	for i := 0; i < workerCount; i++ {
		o.wg.Add(1)
		go o.worker()
	}
	o.wg.Add(1)
	go o.pump()
	if o.pollInterval > 0 {
		o.wg.Add(1)
		go o.poll()
	}
	return o
}

// Subscribe registers a new event channel. The channel is closed when the
// orchestrator shuts down. Events are dropped, not blocked on, when the
// subscriber falls behind.
func (o *Orchestrator) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		close(ch)
		return ch
	}
	o.subs[ch] = struct{}{}
	return ch
}

// RequestRefresh asks for a status refresh of the project. Non-forced
// requests are debounced; forced ones run immediately. Requests arriving
// while a refresh for the same project is in flight are coalesced into a
// single re-run shortly after it completes.
func (o *Orchestrator) RequestRefresh(projectRoot string, force bool) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	sess := o.session(projectRoot)
	o.mu.Unlock()

	if force {
		sess.deb.schedule(0)
		return
	}
	sess.deb.scheduleDefault()
}

// session returns the state for a project root, creating it on first use.
// Caller holds the mutex.
func (o *Orchestrator) session(projectRoot string) *session {
	sess, ok := o.sessions[projectRoot]
	if !ok {
		sess = &session{}
		sess.deb = newDebouncer(debounceDelay, func() {
			o.startRefresh(projectRoot)
		})
		o.sessions[projectRoot] = sess
	}
	return sess
}

// startRefresh enqueues the actual status query unless one is already in
// flight, in which case it marks the session for a re-run.
func (o *Orchestrator) startRefresh(projectRoot string) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	sess := o.session(projectRoot)
	if sess.inFlight {
		sess.requestedAgain = true
		o.mu.Unlock()
		return
	}
	sess.inFlight = true
	sess.generation++
	gen := sess.generation
	o.mu.Unlock()

	o.enqueue(task{
		id:       uuid.NewString(),
		name:     "status-refresh",
		internal: true,
		run: func(ctx context.Context) error {
			status := o.reader.ReadStatus(ctx, projectRoot)
			o.finishRefresh(projectRoot, gen, status)
			return nil
		},
	})
}

// finishRefresh publishes a snapshot and handles coalesced re-runs. Stale
// results from a superseded generation are discarded.
func (o *Orchestrator) finishRefresh(projectRoot string, gen uint64, status *git.RepoStatus) {
	o.mu.Lock()
	sess := o.session(projectRoot)
	sess.inFlight = false
	stale := sess.generation != gen
	again := sess.requestedAgain
	sess.requestedAgain = false
	o.mu.Unlock()

	if !stale {
		o.publish(StatusEvent{ProjectRoot: projectRoot, Status: status})
	}
	if again {
		time.AfterFunc(rerunDelay, func() {
			o.startRefresh(projectRoot)
		})
	}
}

// CancelRefresh drops any pending refresh for a project and invalidates
// results of one already in flight.
func (o *Orchestrator) CancelRefresh(projectRoot string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	sess, ok := o.sessions[projectRoot]
	if !ok {
		return
	}
	sess.deb.cancel()
	sess.generation++
	sess.requestedAgain = false
}

// Submit runs fn on the worker pool and reports completion with a
// TaskEvent. When refreshRoot is non-empty and fn succeeds, a forced
// status refresh for that project follows shortly after. Returns the task
// ID carried by the completion event.
func (o *Orchestrator) Submit(name string, refreshRoot string, fn func(ctx context.Context) error) string {
	id := uuid.NewString()
	o.enqueue(task{id: id, name: name, run: fn, refreshRoot: refreshRoot})
	return id
}

// enqueue places a task on the pool, dropping it when shut down.
func (o *Orchestrator) enqueue(t task) {
	select {
	case o.tasks <- t:
	case <-o.ctx.Done():
	}
}

// worker drains the task channel until shutdown.
func (o *Orchestrator) worker() {
	defer o.wg.Done()
	for {
		select {
		case <-o.ctx.Done():
			return
		case t := <-o.tasks:
			o.runTask(t)
		}
	}
}

// runTask executes one task and publishes its completion. Internal
// refresh tasks publish their own StatusEvent instead.
func (o *Orchestrator) runTask(t task) {
	start := time.Now()
	err := t.run(o.ctx)
	elapsed := time.Since(start)

	if t.internal {
		return
	}

	if err != nil {
		o.logger.Debug("task failed", "task", t.name, "error", err)
	}
	o.publish(TaskEvent{ID: t.id, Name: t.name, Err: err, Duration: elapsed})

	if err == nil && t.refreshRoot != "" {
		root := t.refreshRoot
		time.AfterFunc(postTaskRefreshDelay, func() {
			o.startRefresh(root)
		})
	}
}

// publish queues an event for the next pump tick.
func (o *Orchestrator) publish(ev Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.queue = append(o.queue, ev)
}

// pump flushes queued events to subscribers on a fixed cadence so bursts
// of results arrive as batches instead of a thundering herd.
func (o *Orchestrator) pump() {
	defer o.wg.Done()
	ticker := time.NewTicker(pumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-o.ctx.Done():
			return
		case <-ticker.C:
			o.flush()
		}
	}
}

// flush delivers queued events without blocking on slow subscribers.
func (o *Orchestrator) flush() {
	o.mu.Lock()
	events := o.queue
	o.queue = nil
	subs := make([]chan Event, 0, len(o.subs))
	for ch := range o.subs {
		subs = append(subs, ch)
	}
	o.mu.Unlock()

	for _, ev := range events {
		for _, ch := range subs {
			select {
			case ch <- ev:
			default:
				o.logger.Debug("subscriber lagging, event dropped")
			}
		}
	}
}

// poll issues periodic non-forced refreshes for every known project.
func (o *Orchestrator) poll() {
	defer o.wg.Done()
	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-o.ctx.Done():
			return
		case <-ticker.C:
			o.mu.Lock()
			roots := make([]string, 0, len(o.sessions))
			for root := range o.sessions {
				roots = append(roots, root)
			}
			o.mu.Unlock()
			for _, root := range roots {
				o.RequestRefresh(root, false)
			}
		}
	}
}

// Close stops workers, cancels pending refreshes, flushes remaining
// events, and closes all subscriber channels.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	for _, sess := range o.sessions {
		sess.deb.cancel()
	}
	o.mu.Unlock()

	o.cancel()
	o.wg.Wait()

	// Deliver anything still queued, then close every subscriber.
	o.flush()

	o.mu.Lock()
	defer o.mu.Unlock()
	for ch := range o.subs {
		close(ch)
	}
	o.subs = map[chan Event]struct{}{}
	o.queue = nil
}
