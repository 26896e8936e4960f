package messenger

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/wwfau/pandabot/internal/metrics"
)

type EventKind string

const (
	KindMessage    EventKind = "message"
	KindPostback   EventKind = "postback"
	KindQuickReply EventKind = "quick_reply"
)

// Event is the classified form of one inbound messaging event. Payload is set
// for postbacks and quick replies, Text for freeform messages.
type Event struct {
	SenderID string
	Kind     EventKind
	Payload  string
	Text     string
}

// EventHandler is called once per inbound event, off the request goroutine.
type EventHandler func(ev Event)

type WebhookHandler struct {
	verifyToken string
	onEvent     EventHandler
}

func NewWebhookHandler(verifyToken string, onEvent EventHandler) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: verifyToken,
		onEvent:     onEvent,
	}
}

// HandleVerify handles the GET webhook verification from Meta.
// Reference: https://developers.facebook.com/docs/messenger-platform/webhooks#verification-requests
func (h *WebhookHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "" || token == "" {
		// The original service never answers these requests. Preserved for
		// parity; a 400 here would be the hardened behavior.
		return
	}

	if mode == "subscribe" && token == h.verifyToken {
		log.Println("webhook: verified")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}

	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleIncoming processes incoming webhook POST notifications. Events are
// handed off to the event handler without waiting; Meta only needs the 200.
func (h *WebhookHandler) HandleIncoming(w http.ResponseWriter, r *http.Request) {
	var payload WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Printf("webhook: failed to decode payload: %v", err)
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if payload.Object != "page" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	for _, entry := range payload.Entry {
		// Only the first messaging event per entry is handled; batched
		// events beyond index zero are dropped. Known limitation carried
		// over from the original service.
		if len(entry.Messaging) == 0 {
			continue
		}
		ev, ok := classify(entry.Messaging[0])
		if !ok {
			continue
		}
		metrics.EventsReceived.WithLabelValues(string(ev.Kind)).Inc()
		go h.onEvent(ev)
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("EVENT_RECEIVED"))
}

// classify maps a raw messaging event to its Event form. Precedence follows
// the platform contract: a postback field wins, then a quick-reply echo, then
// the freeform message. Events carrying neither field (delivery receipts,
// read receipts) are skipped.
func classify(raw MessagingEvent) (Event, bool) {
	ev := Event{SenderID: raw.Sender.ID}

	switch {
	case raw.Postback != nil:
		ev.Kind = KindPostback
		ev.Payload = raw.Postback.Payload
	case raw.Message != nil && raw.Message.QuickReply != nil:
		ev.Kind = KindQuickReply
		ev.Payload = raw.Message.QuickReply.Payload
	case raw.Message != nil:
		ev.Kind = KindMessage
		ev.Text = raw.Message.Text
	default:
		return Event{}, false
	}

	return ev, true
}
