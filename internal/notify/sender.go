package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ghnotice/ghnotice/internal/core/task"
	"github.com/ghnotice/ghnotice/internal/integrations/slack"
)

// Poster is the messaging surface the notifier needs from Slack.
type Poster interface {
	PostMessage(ctx context.Context, channel, text string, attachments []slack.Attachment) error
	UpdateMessage(ctx context.Context, channel, ts, text string) error
	RecentMessages(ctx context.Context, channel string, count int) ([]slack.Message, error)
	Username() string
}

// Notifier sends a task's results to its channels.
type Notifier struct {
	slack Poster

	// Fixed text templates, from configuration.
	textDefault string
	textEmpty   string
	textSuffix  string

	now time.Time
}

// New creates a Notifier around a Poster and the configured templates.
func New(p Poster, textDefault, textEmpty, textSuffix string, now time.Time) *Notifier {
	return &Notifier{
		slack:       p,
		textDefault: textDefault,
		textEmpty:   textEmpty,
		textSuffix:  textSuffix,
		now:         now,
	}
}

// Send builds the notification for a task and posts it to every channel.
// A failed channel is logged and the remaining channels still get theirs.
func (n *Notifier) Send(ctx context.Context, t *task.Task) {
	attachments, empty := Build(t)

	mention := " " + strings.Join(t.Mentions, " ") + " "
	text := mention + n.textDefault + n.textSuffix

	for _, channel := range t.Channels {
		var err error
		if empty {
			err = n.postMessageOrUpdate(ctx, channel)
		} else {
			err = n.slack.PostMessage(ctx, channel, text, attachments)
		}
		if err != nil {
			log.Printf("[notify] channel %s: %v", channel, err)
		}
	}
}

// postMessageOrUpdate delivers the "all clear" message. When the latest
// channel message is our own earlier "all clear", it is updated in place
// with a last-updated marker instead of posting a duplicate.
func (n *Notifier) postMessageOrUpdate(ctx context.Context, channel string) error {
	ts := n.tsIfDuplicated(ctx, channel)
	if ts == "" {
		return n.slack.PostMessage(ctx, channel, n.textEmpty+n.textSuffix, nil)
	}

	updatedAt := fmt.Sprintf(" -- :hourglass: last updated at: %s", n.now.Format(time.RFC3339))
	return n.slack.UpdateMessage(ctx, channel, ts, n.textEmpty+n.textSuffix+updatedAt)
}

// tsIfDuplicated returns the timestamp of the channel's most recent message
// when that message was posted by us and carries the "no issues" marker,
// otherwise the empty string.
func (n *Notifier) tsIfDuplicated(ctx context.Context, channel string) string {
	msgs, err := n.slack.RecentMessages(ctx, channel, 1)
	if err != nil {
		log.Printf("[notify] history for %s: %v", channel, err)
		return ""
	}
	if len(msgs) == 0 {
		return ""
	}

	msg := msgs[0]
	if msg.Username == n.slack.Username() && strings.Contains(msg.Text, n.textEmpty) {
		return msg.Ts
	}
	return ""
}
