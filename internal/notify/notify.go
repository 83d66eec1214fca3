// Package notify fans task events out to chat channels. Delivery is
// best-effort: failures are logged, never returned, so a dropped
// notification cannot fail the mutation that triggered it.
package notify

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	slackapi "github.com/slack-go/slack"
	"github.com/zulandar/gantry/internal/config"
	"github.com/zulandar/gantry/internal/models"
)

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	PostMessage(channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// discordSession abstracts the discordgo.Session methods we use.
type discordSession interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier posts task events to the configured channels. A nil Notifier is
// a no-op, as is one with no targets configured.
type Notifier struct {
	slack          slackClient
	slackChannel   string
	discord        discordSession
	discordChannel string
}

// New builds a Notifier from config. Targets without both token and channel
// are left disabled.
func New(cfg config.NotifyConfig) (*Notifier, error) {
	n := &Notifier{
		slackChannel:   cfg.SlackChannel,
		discordChannel: cfg.DiscordChannel,
	}
	if cfg.SlackToken != "" && cfg.SlackChannel != "" {
		n.slack = slackapi.New(cfg.SlackToken)
	}
	if cfg.DiscordToken != "" && cfg.DiscordChannel != "" {
		sess, err := discordgo.New("Bot " + cfg.DiscordToken)
		if err != nil {
			return nil, fmt.Errorf("notify: discord session: %w", err)
		}
		n.discord = sess
	}
	return n, nil
}

// TaskAssigned announces that a task was assigned to a user.
func (n *Notifier) TaskAssigned(task *models.Task, assignee string) {
	n.post(fmt.Sprintf("Task #%d %q assigned to %s", task.TaskID, task.TaskName, assignee))
}

// TaskCompleted announces that a task reached completed status.
func (n *Notifier) TaskCompleted(task *models.Task) {
	n.post(fmt.Sprintf("Task #%d %q completed", task.TaskID, task.TaskName))
}

func (n *Notifier) post(text string) {
	if n == nil {
		return
	}
	if n.slack != nil {
		if _, _, err := n.slack.PostMessage(n.slackChannel, slackapi.MsgOptionText(text, false)); err != nil {
			log.Printf("notify: slack post failed: %v", err)
		}
	}
	if n.discord != nil {
		if _, err := n.discord.ChannelMessageSend(n.discordChannel, text); err != nil {
			log.Printf("notify: discord send failed: %v", err)
		}
	}
}
