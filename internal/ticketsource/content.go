package ticketsource

import (
	"strings"

	"github.com/spec-kit/ticket-intel/internal/domain"
)

// AssembleContent flattens a ticket into the text block handed to the model:
// the subject, the initial comment, then every later public non-automated
// comment under a single header, separated by "---" lines.
func AssembleContent(snapshot *domain.TicketSnapshot) string {
	var b strings.Builder
	b.WriteString("Subject: ")
	b.WriteString(snapshot.Subject)
	b.WriteString("\n\n")

	if len(snapshot.Comments) > 0 {
		b.WriteString(strings.TrimSpace(snapshot.Comments[0].Body))
	}

	var followups []string
	for _, comment := range snapshot.Comments[min(1, len(snapshot.Comments)):] {
		if !comment.Public || comment.Automated {
			continue
		}
		body := strings.TrimSpace(comment.Body)
		if body == "" {
			continue
		}
		followups = append(followups, body)
	}
	if len(followups) > 0 {
		b.WriteString("\n\n---\n\nAdditional Customer Comments:\n\n")
		b.WriteString(strings.Join(followups, "\n\n---\n\n"))
	}

	return b.String()
}

// Context pairs the assembled content with the ticket attributes the
// downstream stages need.
func Context(snapshot *domain.TicketSnapshot) domain.TicketContext {
	return domain.TicketContext{
		TicketID:   snapshot.TicketID,
		Subject:    snapshot.Subject,
		RawContent: AssembleContent(snapshot),
		Tags:       snapshot.Tags,
		Priority:   snapshot.Priority,
		CreatedAt:  snapshot.CreatedAt,
	}
}
