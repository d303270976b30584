// Package notify renders a completed task into Slack attachments and
// delivers them, including the duplicate-aware "all clear" path.
package notify

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ghnotice/ghnotice/internal/core/task"
	"github.com/ghnotice/ghnotice/internal/integrations/slack"
)

const (
	reactiveDocURL = "https://github.com/ghnotice/ghnotice/blob/main/docs/reactive-per.md"
	idleDocURL     = "https://github.com/ghnotice/ghnotice/blob/main/docs/idle-period.md"

	statsFooterIcon = "https://octodex.github.com/images/surftocat.png"
	idleFooterIcon  = "https://octodex.github.com/images/Sentrytocat_octodex.jpg"

	// allProactive replaces the percentage when every issue is proactive.
	allProactive = "--% :point_right: Please applying `proactive` label to voluntary issues"
)

var titleCaser = cases.Title(language.English)

// Build renders a task's results into Slack attachments. The second return
// is true when nothing would be shown, which routes the send through the
// duplicate-aware "all clear" path instead.
func Build(t *task.Task) ([]slack.Attachment, bool) {
	var attachments []slack.Attachment
	empty := true

	if t.Stats != nil && t.Stats.Enabled {
		attachments = append(attachments, statsAttachment(t))
	}

	for _, l := range t.Labels {
		if len(l.DisplayLines) == 0 {
			continue
		}
		empty = false
		attachments = append(attachments, slack.Attachment{
			Title: labelTitle(l),
			Color: l.Color,
			Text:  strings.Join(l.DisplayLines, "\n"),
		})
	}

	if t.Idle != nil && len(t.Idle.IssueTitles) > 0 {
		empty = false
		attachments = append(attachments, slack.Attachment{
			Title:      fmt.Sprintf("Closed with no change over %ddays", t.Idle.Period),
			Color:      "#CCCCCC",
			Text:       strings.Join(t.Idle.IssueTitles, "\n"),
			Footer:     fmt.Sprintf("Idle Period | <%s|What is this?>", idleDocURL),
			FooterIcon: idleFooterIcon,
			Fields: []slack.Field{
				{Title: "Closed Total", Value: fmt.Sprintf("%d", len(t.Idle.IssueTitles)), Short: true},
			},
		})
	}

	return attachments, empty
}

// labelTitle renders the attachment title for a label rule: the name with
// dashes spaced out and title-cased, unless it is all caps already, plus
// the threshold message when the issue count exceeds the threshold.
func labelTitle(l *task.Label) string {
	h := strings.ReplaceAll(l.Name, "-", " ")
	if strings.ToUpper(h) != h {
		h = titleCaser.String(h)
	}

	if l.Threshold.Exceeded(len(l.DisplayLines)) {
		sep := ""
		if l.Name != "" {
			sep = " -- "
		}
		return h + sep + l.Message
	}
	return h
}

// statsAttachment summarizes issue/pull counts and the reactive percentage.
func statsAttachment(t *task.Task) slack.Attachment {
	s := t.Stats
	r := s.ReactivePercent()

	info := fmt.Sprintf("%s %d%%", statsEmoji(r), r)
	if r == 100 {
		info = allProactive
	}

	return slack.Attachment{
		Title:      fmt.Sprintf("Stats for %d repositories", len(t.Repos)),
		Color:      "#000000",
		Text:       "",
		Footer:     fmt.Sprintf("Stats | <%s|What is this?>", reactiveDocURL),
		FooterIcon: statsFooterIcon,
		Fields: []slack.Field{
			{Title: "Reactive Per", Value: info, Short: false},
			{Title: "Open Issues Total", Value: fmt.Sprintf("%d", s.Issues-s.Pulls), Short: true},
			{Title: "Open Pulls Total", Value: fmt.Sprintf("%d", s.Pulls), Short: true},
		},
	}
}

// statsEmoji maps a reactive percentage to a severity icon. The first
// satisfied comparison wins, checked in descending order.
func statsEmoji(r int) string {
	switch {
	case r > 90:
		return ":skull:"
	case r > 80:
		return ":fire:"
	case r > 70:
		return ":jack_o_lantern:"
	case r > 60:
		return ":space_invader:"
	case r > 50:
		return ":surfer:"
	case r > 40:
		return ":palm_tree:"
	case r > 30:
		return ":helicopter:"
	default:
		return ":rocket:"
	}
}
