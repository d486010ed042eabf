package telegram

import (
	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/events"
	"complaintdesk/backend/internal/models"
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxPendingListed caps the /pending reply.
const maxPendingListed = 10

// render builds the chat text for ev. The student's name is never included.
func (s *BotService) render(ctx context.Context, ev events.Event) (string, error) {
	c, err := s.Storage.GetComplaintByID(ctx, ev.ComplaintID)
	if err != nil {
		return "", err
	}

	switch ev.Type {
	case events.ComplaintCreated:
		return fmt.Sprintf(s.text("notify.created"), c.ID, c.Title,
			s.Localizer.Label(s.Lang, "category", string(c.Category)),
			s.Localizer.Label(s.Lang, "department", string(c.Department))), nil
	case events.ComplaintStatusChanged:
		return fmt.Sprintf(s.text("notify.status_changed"), c.ID, c.Title,
			s.Localizer.Label(s.Lang, "status", string(ev.Status))), nil
	case events.ComplaintResponded:
		return fmt.Sprintf(s.text("notify.responded"), c.ID, c.Title), nil
	case events.ComplaintFeedback:
		rating := 0
		if c.Feedback != nil {
			rating = c.Feedback.Rating
		}
		return fmt.Sprintf(s.text("notify.feedback"), c.ID, c.Title, rating), nil
	}
	return "", fmt.Errorf("unknown event type %q", ev.Type)
}

// HandleCommand answers /stats and /pending. Messages from other chats and
// plain text are ignored.
func (s *BotService) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.Chat.ID != s.ChatID || !msg.IsCommand() {
		return
	}

	switch msg.Command() {
	case "stats":
		list, err := s.Storage.ListComplaints(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("stats command failed")
			s.send(msg.Chat.ID, s.text("bot.error"))
			return
		}
		sum := analysis.Summarize(list)
		s.send(msg.Chat.ID, fmt.Sprintf(s.text("bot.stats"), sum.Total, sum.Resolved, sum.Pending, sum.AverageRating))

	case "pending":
		list, err := s.Storage.ListComplaints(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("pending command failed")
			s.send(msg.Chat.ID, s.text("bot.error"))
			return
		}
		s.send(msg.Chat.ID, s.pendingText(list))

	default:
		s.send(msg.Chat.ID, s.text("bot.unknown_command"))
	}
}

func (s *BotService) pendingText(list []models.Complaint) string {
	var b strings.Builder
	n := 0
	for _, c := range list {
		if c.Status != models.StatusPending {
			continue
		}
		if n == 0 {
			b.WriteString(s.text("bot.pending_header"))
		}
		n++
		if n > maxPendingListed {
			b.WriteString("\n…")
			break
		}
		fmt.Fprintf(&b, "\n%s · %s · %s", c.ID, c.Title, s.Localizer.Label(s.Lang, "department", string(c.Department)))
	}
	if n == 0 {
		return s.text("bot.pending_none")
	}
	return b.String()
}

func (s *BotService) text(key string) string {
	return s.Localizer.GetString(s.Lang, key)
}
