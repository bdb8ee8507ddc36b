package telemetry

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type fixedConsent bool

func (c fixedConsent) HasConsent() bool { return bool(c) }

// collector records every payload posted to it.
type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var ev Event
		if err := json.Unmarshal(body, &ev); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c.mu.Lock()
		c.events = append(c.events, ev)
		c.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
}

func (c *collector) all() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func TestSendWithoutConsentIsNoOp(t *testing.T) {
	col := &collector{}
	srv := httptest.NewServer(col.handler())
	defer srv.Close()

	b := NewBeacon(srv.URL, fixedConsent(false), nil)
	b.Send(PageInfo{ID: "p1", Path: "/"}, "pageview", nil, nil)

	if got := col.all(); len(got) != 0 {
		t.Fatalf("expected zero events without consent, got %d", len(got))
	}
}

func TestSendPayloadShape(t *testing.T) {
	col := &collector{}
	srv := httptest.NewServer(col.handler())
	defer srv.Close()

	b := NewBeacon(srv.URL, fixedConsent(true), nil)
	b.SetBaseProps(map[string]any{"utm_source": "newsletter"})

	ref := "https://example.org/"
	dur := int64(1234)
	b.Send(PageInfo{ID: "p1", Path: "/pricing", Referrer: &ref}, "pageclose", &dur, map[string]any{"extra": "x"})

	got := col.all()
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	ev := got[0]
	if ev.Event != "pageclose" || ev.Path != "/pricing" || ev.PageID != "p1" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.TS == 0 {
		t.Fatal("timestamp missing")
	}
	if ev.Referrer == nil || *ev.Referrer != ref {
		t.Fatalf("unexpected referrer: %v", ev.Referrer)
	}
	if ev.DurationMS == nil || *ev.DurationMS != dur {
		t.Fatalf("unexpected duration: %v", ev.DurationMS)
	}
	if ev.Props["utm_source"] != "newsletter" || ev.Props["extra"] != "x" {
		t.Fatalf("unexpected props: %v", ev.Props)
	}
}

func TestSendMarksNewSessionOnce(t *testing.T) {
	col := &collector{}
	srv := httptest.NewServer(col.handler())
	defer srv.Close()

	sess := NewSessionStore(t.TempDir())
	b := NewBeacon(srv.URL, fixedConsent(true), sess)

	pg := PageInfo{ID: "p1", Path: "/"}
	b.Send(pg, "pageview", nil, nil)
	b.Send(pg, "heartbeat", nil, nil)

	var starts int
	for _, ev := range col.all() {
		if ev.Event == "session_start" {
			starts++
		}
		if ev.Props["sid"] == nil {
			t.Fatalf("event %q missing sid", ev.Event)
		}
	}
	if starts != 1 {
		t.Fatalf("expected exactly one session_start, got %d", starts)
	}
}
