package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"

	"github.com/Gn4ik/sync-project-tracker/internal/agenda"
	"github.com/Gn4ik/sync-project-tracker/internal/status"
)

// SlackClient captures the Slack API surface the notifier uses, so tests can
// substitute a fake.
type SlackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Digest posts periodic upcoming-events summaries to a Slack channel.
// Delivery failures are logged and swallowed; the digest is best effort and
// must never take the tracker down with it.
type Digest struct {
	client  SlackClient
	channel string
	logger  *slog.Logger
}

// NewDigest wires a digest notifier for the given channel.
func NewDigest(client SlackClient, channel string, logger *slog.Logger) *Digest {
	if logger == nil {
		logger = slog.Default()
	}
	return &Digest{client: client, channel: channel, logger: logger}
}

// SendTimeline posts a formatted digest of the employee's upcoming events.
func (d *Digest) SendTimeline(ctx context.Context, employeeName string, timeline agenda.Timeline) {
	if d == nil || d.client == nil {
		return
	}

	text := FormatTimeline(employeeName, timeline)
	if _, _, err := d.client.PostMessageContext(ctx, d.channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionDisableLinkUnfurl(),
	); err != nil {
		d.logger.Warn("digest delivery failed", "channel", d.channel, "error", err)
	}
}

// SendStatusChange posts a short notice when an employee's status flips.
func (d *Digest) SendStatusChange(ctx context.Context, employeeName string, snapshot status.Snapshot) {
	if d == nil || d.client == nil {
		return
	}

	text := fmt.Sprintf("*%s* is now *%s*", employeeName, snapshot.Status)
	if _, _, err := d.client.PostMessageContext(ctx, d.channel,
		slack.MsgOptionText(text, false),
	); err != nil {
		d.logger.Warn("status notice delivery failed", "channel", d.channel, "error", err)
	}
}

// FormatTimeline renders a timeline as Slack mrkdwn, one section per day.
func FormatTimeline(employeeName string, timeline agenda.Timeline) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Upcoming events for *%s*\n", employeeName)

	if timeline.Empty {
		b.WriteString("_No events in the upcoming window._")
		return b.String()
	}

	for _, group := range timeline.Days {
		fmt.Fprintf(&b, "\n*%s*\n", group.Day.Format("Mon, 02 Jan"))
		for _, event := range group.Events {
			b.WriteString("• ")
			if event.Time != "" {
				fmt.Fprintf(&b, "`%s` ", event.Time)
			}
			if event.Link != "" {
				fmt.Fprintf(&b, "<%s|%s>", event.Link, event.Label)
			} else {
				b.WriteString(event.Label)
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
