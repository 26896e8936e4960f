package messenger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultGraphBaseURL = "https://graph.facebook.com/v2.6"

// Client calls the Messenger Platform graph API. The page access token is
// passed as a query parameter on every call, per the Send API reference.
type Client struct {
	baseURL     string
	accessToken string
	http        *http.Client
}

func NewClient(baseURL, accessToken string) *Client {
	if baseURL == "" {
		baseURL = DefaultGraphBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		http:        &http.Client{Timeout: 15 * time.Second},
	}
}

// SendMessage delivers one message to the given PSID via the Send API.
// Reference: https://developers.facebook.com/docs/messenger-platform/reference/send-api
func (c *Client) SendMessage(recipientID string, msg SendMessage) error {
	payload, err := json.Marshal(SendRequest{
		Recipient: Participant{ID: recipientID},
		Message:   msg,
	})
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/me/messages?access_token=%s", c.baseURL, url.QueryEscape(c.accessToken))
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("send API status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}

// GetFirstName fetches the sender's first name from the user profile API.
// Reference: https://developers.facebook.com/docs/messenger-platform/identity/user-profile
func (c *Client) GetFirstName(psid string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s?access_token=%s&fields=first_name",
		c.baseURL, url.PathEscape(psid), url.QueryEscape(c.accessToken))
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("profile lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("profile lookup status %d: %s", resp.StatusCode, body)
	}

	var profile UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return "", fmt.Errorf("decoding profile: %w", err)
	}
	return profile.FirstName, nil
}
