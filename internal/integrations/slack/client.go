// Package slack is a minimal Slack Web API client covering the three calls
// the notice job needs: posting a message, updating one in place, and
// reading recent channel history.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://slack.com/api"

// Client calls the Slack Web API with a bot token.
type Client struct {
	token    string
	username string
	icon     string
	baseURL  string
	http     *http.Client
}

// NewClient creates a Slack client. username and icon are stamped on every
// posted message so the duplicate-aware poster can recognize its own
// messages later.
func NewClient(token, username, icon string) *Client {
	return &Client{
		token:    token,
		username: username,
		icon:     icon,
		baseURL:  defaultBaseURL,
		http:     &http.Client{Timeout: 20 * time.Second},
	}
}

// Username returns the username messages are posted under.
func (c *Client) Username() string {
	return c.username
}

// Attachment is one structured block of a Slack message.
type Attachment struct {
	Title      string  `json:"title,omitempty"`
	Color      string  `json:"color,omitempty"`
	Text       string  `json:"text"`
	Footer     string  `json:"footer,omitempty"`
	FooterIcon string  `json:"footer_icon,omitempty"`
	Fields     []Field `json:"fields,omitempty"`
}

// Field is a short key/value pair inside an attachment.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Message is one channel message as returned by the history call.
type Message struct {
	Username string `json:"username"`
	Text     string `json:"text"`
	Ts       string `json:"ts"`
}

// PostMessage posts a new message to a channel.
func (c *Client) PostMessage(ctx context.Context, channel, text string, attachments []Attachment) error {
	payload := map[string]any{
		"channel":    channel,
		"username":   c.username,
		"icon_emoji": c.icon,
		"link_names": 1,
		"text":       text,
	}
	if len(attachments) > 0 {
		payload["attachments"] = attachments
	}
	return c.call(ctx, "chat.postMessage", payload, nil)
}

// UpdateMessage replaces the text of an existing message identified by its
// channel and timestamp.
func (c *Client) UpdateMessage(ctx context.Context, channel, ts, text string) error {
	payload := map[string]any{
		"channel": channel,
		"ts":      ts,
		"text":    text,
	}
	return c.call(ctx, "chat.update", payload, nil)
}

// RecentMessages fetches the most recent count messages of a channel,
// newest first.
func (c *Client) RecentMessages(ctx context.Context, channel string, count int) ([]Message, error) {
	q := url.Values{}
	q.Set("channel", channel)
	q.Set("limit", strconv.Itoa(count))

	var out struct {
		Messages []Message `json:"messages"`
	}
	if err := c.get(ctx, "conversations.history", q, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// apiResponse is the envelope every Slack Web API call returns.
type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, payload map[string]any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	return c.do(req, method, out)
}

func (c *Client) get(ctx context.Context, method string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+method+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	return c.do(req, method, out)
}

func (c *Client) do(req *http.Request, method string, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	if res.StatusCode >= 300 {
		return fmt.Errorf("%s status=%d body=%s", method, res.StatusCode, string(body))
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if !envelope.OK {
		return fmt.Errorf("%s api error: %s", method, envelope.Error)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode %s response: %w", method, err)
		}
	}
	return nil
}
