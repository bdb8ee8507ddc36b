package telemetry

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// HeartbeatInterval is how often a live page emits a heartbeat.
const HeartbeatInterval = 15 * time.Second

// ScrollMilestones are the ascending depth thresholds, each reported at
// most once per page view.
var ScrollMilestones = []int{25, 50, 75, 100}

// Page tracks one page view: it owns the page id, the start timestamp, the
// scroll-milestone state, and the close guard. All state lives on the
// struct so independent views never share anything.
type Page struct {
	beacon *Beacon
	info   PageInfo
	start  time.Time
	now    func() time.Time

	mu       sync.Mutex
	maxDepth int
	fired    map[int]bool
	closed   bool

	hbStop chan struct{}
	hbOnce sync.Once
}

// NewPage creates a tracker for one page view. The page id is generated
// here and never persisted: it tags every event of this view and nothing
// else.
func NewPage(beacon *Beacon, path, referrer string) *Page {
	info := PageInfo{ID: uuid.NewString(), Path: path}
	if referrer != "" {
		info.Referrer = &referrer
	}
	return &Page{
		beacon: beacon,
		info:   info,
		start:  time.Now(),
		now:    time.Now,
		fired:  make(map[int]bool),
	}
}

// ID returns the page view identifier.
func (p *Page) ID() string { return p.info.ID }

// Start emits the pageview event. Call once, immediately after consent is
// known to hold.
func (p *Page) Start() {
	p.beacon.Send(p.info, "pageview", nil, nil)
}

// StartHeartbeat emits heartbeat events every interval until the page is
// closed. A non-positive interval uses the default.
func (p *Page) StartHeartbeat(interval time.Duration) {
	if interval <= 0 {
		interval = HeartbeatInterval
	}
	p.hbOnce.Do(func() {
		p.hbStop = make(chan struct{})
		go func() {
			t := time.NewTicker(interval)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					p.mu.Lock()
					closed := p.closed
					p.mu.Unlock()
					if closed {
						return
					}
					p.beacon.Send(p.info, "heartbeat", p.elapsed(), nil)
				case <-p.hbStop:
					return
				}
			}
		}()
	})
}

// ObserveScroll records a scroll position. offset is the scrolled distance,
// viewport the visible height, content the total scrollable height.
// Milestones are monotonic and fire at most once each. A page without
// scrollable overflow (content <= viewport) is skipped entirely, so no
// division by zero and no spurious 100% events.
func (p *Page) ObserveScroll(offset, viewport, content int) {
	if content <= viewport {
		return
	}

	percent := offset * 100 / (content - viewport)
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	var reached []int
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if percent > p.maxDepth {
		p.maxDepth = percent
	}
	for _, m := range ScrollMilestones {
		if !p.fired[m] && p.maxDepth >= m {
			p.fired[m] = true
			reached = append(reached, m)
		}
	}
	p.mu.Unlock()

	for _, m := range reached {
		p.beacon.Send(p.info, fmt.Sprintf("scroll:%d", m), nil, nil)
	}
}

// Click reports an interaction on an element flagged for tracking.
func (p *Page) Click(label string) {
	p.beacon.Send(p.info, "click:"+label, nil, nil)
}

// Conversion reports a completed conversion action.
func (p *Page) Conversion(label string) {
	p.beacon.Send(p.info, "conversion:"+label, nil, nil)
}

// Close emits pageclose with the elapsed duration, exactly once. The
// hidden and unload paths both funnel here, so double firing is impossible;
// the heartbeat stops as a side effect.
func (p *Page) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	if p.hbStop != nil {
		close(p.hbStop)
	}
	p.beacon.Send(p.info, "pageclose", p.elapsed(), nil)
}

func (p *Page) elapsed() *int64 {
	ms := p.now().Sub(p.start).Milliseconds()
	return &ms
}
