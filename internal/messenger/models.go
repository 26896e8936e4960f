package messenger

// --- Incoming webhook payload ---
// Reference: https://developers.facebook.com/docs/messenger-platform/webhooks#event-notifications

type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
}

type MessagingEvent struct {
	Sender    Participant      `json:"sender"`
	Recipient Participant      `json:"recipient"`
	Timestamp int64            `json:"timestamp"`
	Postback  *Postback        `json:"postback,omitempty"`
	Message   *ReceivedMessage `json:"message,omitempty"`
}

type Participant struct {
	ID string `json:"id"`
}

// Postback is a button-tap event carrying a fixed payload code.
// Reference: https://developers.facebook.com/docs/messenger-platform/reference/webhook-events/messaging_postbacks
type Postback struct {
	Title   string `json:"title,omitempty"`
	Payload string `json:"payload"`
}

// ReceivedMessage carries free-typed text, or the quick-reply echo when the
// user tapped a quick-reply button beneath the previous message.
type ReceivedMessage struct {
	MID        string          `json:"mid,omitempty"`
	Text       string          `json:"text,omitempty"`
	QuickReply *QuickReplyEcho `json:"quick_reply,omitempty"`
}

type QuickReplyEcho struct {
	Payload string `json:"payload"`
}

// --- Outgoing Send API ---
// Reference: https://developers.facebook.com/docs/messenger-platform/reference/send-api

type SendRequest struct {
	Recipient Participant `json:"recipient"`
	Message   SendMessage `json:"message"`
}

// SendMessage is either text (optionally with quick replies) or an attachment,
// never both.
type SendMessage struct {
	Text         string       `json:"text,omitempty"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
	Attachment   *Attachment  `json:"attachment,omitempty"`
}

type QuickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Payload     string `json:"payload"`
}

// Attachment wraps a structured template rendered natively by the client.
// Reference: https://developers.facebook.com/docs/messenger-platform/reference/templates/generic
type Attachment struct {
	Type    string          `json:"type"`
	Payload TemplatePayload `json:"payload"`
}

type TemplatePayload struct {
	TemplateType string            `json:"template_type"`
	Elements     []TemplateElement `json:"elements"`
}

type TemplateElement struct {
	Title    string      `json:"title"`
	ImageURL string      `json:"image_url,omitempty"`
	Subtitle string      `json:"subtitle,omitempty"`
	Buttons  []URLButton `json:"buttons,omitempty"`
}

type URLButton struct {
	Type  string `json:"type"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// --- Profile lookup ---

type UserProfile struct {
	FirstName string `json:"first_name"`
}
