// Package telemetry implements the first-party analytics client: a
// consent-gated event beacon and a per-page tracker state machine.
//
// Delivery is best effort. Failures are swallowed, never retried, and
// never surfaced: analytics must not produce user-visible errors.
package telemetry

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// CollectPath is the portal ingestion endpoint for telemetry events.
const CollectPath = "/a/collect"

// Event is the telemetry wire payload.
type Event struct {
	Event      string         `json:"event"`
	Path       string         `json:"path"`
	TS         int64          `json:"ts"` // epoch millis
	Referrer   *string        `json:"referrer"`
	PageID     string         `json:"page_id"`
	DurationMS *int64         `json:"duration_ms"`
	Props      map[string]any `json:"props"`
}

// PageInfo identifies the page view an event belongs to.
type PageInfo struct {
	ID       string
	Path     string
	Referrer *string
}

// ConsentChecker gates event emission.
type ConsentChecker interface {
	HasConsent() bool
}

// Beacon transmits telemetry events to the collector endpoint. Every send
// is a single attempt over one transport; errors vanish.
type Beacon struct {
	endpoint string
	consent  ConsentChecker
	session  *SessionStore
	hc       *http.Client
	now      func() time.Time

	mu sync.Mutex

	// Base properties (UTM tags etc.) merged into every event's props.
	base map[string]any

	sessionMarked bool
}

// NewBeacon creates a beacon posting to endpoint (a fully resolved
// collector URL). session may be nil when session stitching is unwanted.
func NewBeacon(endpoint string, consent ConsentChecker, session *SessionStore) *Beacon {
	return &Beacon{
		endpoint: endpoint,
		consent:  consent,
		session:  session,
		hc:       &http.Client{Timeout: 3 * time.Second},
		now:      time.Now,
	}
}

// SetBaseProps attaches properties (e.g. utm_source) carried on every event.
func (b *Beacon) SetBaseProps(props map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.base = props
}

// Send emits an event for the given page view. It is a no-op without
// recorded consent.
func (b *Beacon) Send(pg PageInfo, event string, duration *int64, props map[string]any) {
	if !b.consent.HasConsent() {
		return
	}

	merged := map[string]any{}
	b.mu.Lock()
	for k, v := range b.base {
		merged[k] = v
	}
	b.mu.Unlock()
	for k, v := range props {
		merged[k] = v
	}

	if b.session != nil {
		sid, isNew := b.session.Touch()
		merged["sid"] = sid
		if isNew {
			b.mu.Lock()
			mark := !b.sessionMarked
			b.sessionMarked = true
			b.mu.Unlock()
			if mark && event != "session_start" {
				b.post(b.build(pg, "session_start", nil, map[string]any{"sid": sid}))
			}
		}
	}
	if len(merged) == 0 {
		merged = nil
	}

	b.post(b.build(pg, event, duration, merged))
}

func (b *Beacon) build(pg PageInfo, event string, duration *int64, props map[string]any) *Event {
	return &Event{
		Event:      event,
		Path:       pg.Path,
		TS:         b.now().UnixMilli(),
		Referrer:   pg.Referrer,
		PageID:     pg.ID,
		DurationMS: duration,
		Props:      props,
	}
}

// post performs the single delivery attempt.
func (b *Beacon) post(ev *Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	resp, err := b.hc.Post(b.endpoint, "application/json", bytes.NewReader(data))
	if err != nil {
		return
	}
	resp.Body.Close()
}
