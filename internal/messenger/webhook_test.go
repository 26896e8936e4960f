package messenger

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newRecordingHandler() (*WebhookHandler, chan Event) {
	events := make(chan Event, 8)
	h := NewWebhookHandler("secret-token", func(ev Event) {
		events <- ev
	})
	return h, events
}

func waitForEvent(t *testing.T, events chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}

func expectNoEvent(t *testing.T, events chan Event) {
	t.Helper()
	select {
	case ev := <-events:
		t.Fatalf("expected no event, got %#v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHandleVerifySuccess(t *testing.T) {
	t.Parallel()

	h, _ := newRecordingHandler()
	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	h.HandleVerify(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "12345" {
		t.Fatalf("expected challenge echo, got %q", rec.Body.String())
	}
}

func TestHandleVerifyWrongToken(t *testing.T) {
	t.Parallel()

	h, _ := newRecordingHandler()
	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	h.HandleVerify(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestHandleVerifyWrongMode(t *testing.T) {
	t.Parallel()

	h, _ := newRecordingHandler()
	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=unsubscribe&hub.verify_token=secret-token&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	h.HandleVerify(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestHandleVerifyMissingParamsWritesNothing(t *testing.T) {
	t.Parallel()

	h, _ := newRecordingHandler()
	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe", nil)
	rec := httptest.NewRecorder()
	h.HandleVerify(rec, req)

	// Parity with the original: the request goes unanswered, so the handler
	// must not echo the challenge or write a 403 body.
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestHandleIncomingRejectsNonPageObject(t *testing.T) {
	t.Parallel()

	h, events := newRecordingHandler()
	body := `{"object":"user","entry":[{"messaging":[{"sender":{"id":"U1"},"message":{"text":"hi"}}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleIncoming(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	expectNoEvent(t, events)
}

func TestHandleIncomingRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	h, events := newRecordingHandler()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.HandleIncoming(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	expectNoEvent(t, events)
}

func TestHandleIncomingAcksPageEvents(t *testing.T) {
	t.Parallel()

	h, _ := newRecordingHandler()
	body := `{"object":"page","entry":[]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleIncoming(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "EVENT_RECEIVED" {
		t.Fatalf("expected EVENT_RECEIVED, got %q", rec.Body.String())
	}
}

func TestHandleIncomingClassifiesPostbackFirst(t *testing.T) {
	t.Parallel()

	h, events := newRecordingHandler()
	// Postback wins even if a message field were present alongside it.
	body := `{"object":"page","entry":[{"messaging":[{"sender":{"id":"U1"},"postback":{"payload":"GREETING"},"message":{"text":"hi"}}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleIncoming(rec, req)

	ev := waitForEvent(t, events)
	if ev.Kind != KindPostback || ev.Payload != "GREETING" || ev.SenderID != "U1" {
		t.Fatalf("unexpected event %#v", ev)
	}
}

func TestHandleIncomingClassifiesQuickReply(t *testing.T) {
	t.Parallel()

	h, events := newRecordingHandler()
	body := `{"object":"page","entry":[{"messaging":[{"sender":{"id":"U2"},"message":{"text":"Yes!","quick_reply":{"payload":"START_SEARCH_YES"}}}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleIncoming(rec, req)

	ev := waitForEvent(t, events)
	if ev.Kind != KindQuickReply || ev.Payload != "START_SEARCH_YES" {
		t.Fatalf("unexpected event %#v", ev)
	}
}

func TestHandleIncomingClassifiesFreeformMessage(t *testing.T) {
	t.Parallel()

	h, events := newRecordingHandler()
	body := `{"object":"page","entry":[{"messaging":[{"sender":{"id":"U3"},"message":{"text":"hello there"}}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleIncoming(rec, req)

	ev := waitForEvent(t, events)
	if ev.Kind != KindMessage || ev.Text != "hello there" {
		t.Fatalf("unexpected event %#v", ev)
	}
}

func TestHandleIncomingSkipsReceiptEvents(t *testing.T) {
	t.Parallel()

	h, events := newRecordingHandler()
	body := `{"object":"page","entry":[{"messaging":[{"sender":{"id":"U4"}}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleIncoming(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	expectNoEvent(t, events)
}

func TestHandleIncomingTakesFirstMessagingEventOnly(t *testing.T) {
	t.Parallel()

	h, events := newRecordingHandler()
	body := `{"object":"page","entry":[{"messaging":[` +
		`{"sender":{"id":"U5"},"message":{"text":"first"}},` +
		`{"sender":{"id":"U6"},"message":{"text":"second"}}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleIncoming(rec, req)

	ev := waitForEvent(t, events)
	if ev.SenderID != "U5" {
		t.Fatalf("expected first event's sender, got %#v", ev)
	}
	expectNoEvent(t, events)
}
