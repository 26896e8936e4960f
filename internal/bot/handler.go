package bot

import (
	"log"

	"github.com/wwfau/pandabot/internal/messenger"
	"github.com/wwfau/pandabot/internal/metrics"
)

// Payload codes echoed back by quick-reply and postback taps. The conversation
// has no server-side session; whichever code the client returns identifies the
// branch the user is on.
const (
	PayloadStartSearchYes = "START_SEARCH_YES"
	PayloadStartSearchNo  = "START_SEARCH_NO"
	PayloadGreeting       = "GREETING"
	PayloadAustraliaYes   = "AUSTRALIA_YES"
	PayloadAustraliaNo    = "AUSTRALIA_NO"
	PayloadOtherHelpYes   = "OTHER_HELP_YES"
)

// Sender is the outbound surface of the messenger client used by the handler.
type Sender interface {
	SendMessage(recipientID string, msg messenger.SendMessage) error
	GetFirstName(psid string) (string, error)
}

type Handler struct {
	sender Sender
}

func NewHandler(sender Sender) *Handler {
	return &Handler{sender: sender}
}

// HandleEvent drives one inbound event through the conversation tree. Send
// failures are logged and dropped; the webhook caller has already been
// acknowledged.
func (h *Handler) HandleEvent(ev messenger.Event) {
	var firstName string
	if ev.Kind != messenger.KindMessage && ev.Payload == PayloadGreeting {
		name, err := h.sender.GetFirstName(ev.SenderID)
		if err != nil {
			metrics.ProfileLookupFailures.Inc()
			log.Printf("bot: profile lookup failed for %s: %v", ev.SenderID, err)
		} else {
			firstName = name
		}
	}

	reply := Dispatch(ev, firstName)
	if reply == nil {
		return
	}

	if err := h.sender.SendMessage(ev.SenderID, *reply); err != nil {
		metrics.SendFailures.Inc()
		log.Printf("bot: failed to send reply to %s: %v", ev.SenderID, err)
		return
	}
	metrics.RepliesSent.Inc()
}

// Dispatch maps one classified event to the reply it should produce, or nil
// for events with no matching branch. It is pure: the same event and name
// always yield the same reply. firstName only affects the greeting branch.
func Dispatch(ev messenger.Event, firstName string) *messenger.SendMessage {
	if ev.Kind == messenger.KindMessage {
		// Freeform text is never inspected; every message restarts the script.
		return searchPrompt("Hi, it would take me some times to answer your message. " +
			"Are you looking for opportunities to join a community of like-minded pandas in your area?")
	}

	switch ev.Payload {
	case PayloadStartSearchYes:
		return australiaPrompt()
	case PayloadStartSearchNo:
		return otherHelpPrompt()
	case PayloadOtherHelpYes:
		return campaignsCard()
	case PayloadGreeting:
		greeting := ""
		if firstName != "" {
			greeting = "Hi " + firstName + ". "
		}
		return searchPrompt(greeting + "Would you like to join a community of like-minded pandas in your area?")
	case PayloadAustraliaYes, PayloadAustraliaNo:
		// Unfinished branch: both answers are accepted but no follow-up was
		// ever written for them. Deliberate no-op, not an error.
		return nil
	default:
		return nil
	}
}

func searchPrompt(text string) *messenger.SendMessage {
	return &messenger.SendMessage{
		Text: text,
		QuickReplies: []messenger.QuickReply{
			{ContentType: "text", Title: "Yes!", Payload: PayloadStartSearchYes},
			{ContentType: "text", Title: "No, thanks.", Payload: PayloadStartSearchNo},
		},
	}
}

func australiaPrompt() *messenger.SendMessage {
	return &messenger.SendMessage{
		Text: " Ok, I have to get to know you a little bit more for this. Do you live in Australia?",
		QuickReplies: []messenger.QuickReply{
			{ContentType: "text", Title: "Yes!", Payload: PayloadAustraliaYes},
			{ContentType: "text", Title: "Nope.", Payload: PayloadAustraliaNo},
		},
	}
}

func otherHelpPrompt() *messenger.SendMessage {
	return &messenger.SendMessage{
		Text: "That's ok my friend, do you want to find other ways to help WWF?",
		QuickReplies: []messenger.QuickReply{
			{ContentType: "text", Title: "Yes.", Payload: PayloadOtherHelpYes},
		},
	}
}

func campaignsCard() *messenger.SendMessage {
	return &messenger.SendMessage{
		Attachment: &messenger.Attachment{
			Type: "template",
			Payload: messenger.TemplatePayload{
				TemplateType: "generic",
				Elements: []messenger.TemplateElement{
					{
						Title:    "We need your help",
						ImageURL: "http://awsassets.panda.org/img/original/wwf_infographic_tropical_deforestation.jpg",
						Subtitle: "to save our natural world",
						Buttons: []messenger.URLButton{
							{Type: "web_url", URL: "http://www.wwf.org.au", Title: "View Website"},
							{Type: "web_url", URL: "http://www.wwf.org.au", Title: "Adopt an Animal"},
						},
					},
				},
			},
		},
	}
}
