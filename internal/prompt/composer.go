package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spec-kit/ticket-intel/internal/domain"
)

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Composer merges extracted context and raw ticket text into a model prompt
// using a user-editable template with {{name}} placeholders.
type Composer struct{}

// NewComposer constructs the composer.
func NewComposer() *Composer {
	return &Composer{}
}

// Compose substitutes every known variable into the template in a single
// pass, so substituted values are never re-expanded. Unknown placeholders are
// left verbatim. When the substituted prompt does not contain the raw ticket
// content, the content and any detected pattern context are appended so the
// model always receives the ticket body.
func (c *Composer) Compose(template string, vars map[string]string) string {
	prompt := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[2 : len(match)-2]
		if value, ok := vars[name]; ok {
			return value
		}
		return match
	})

	content := vars["ticketContent"]
	if content != "" && !strings.Contains(prompt, content) {
		prompt += fmt.Sprintf("\n\nHere's the ticket content:\n\"\"\"\n%s\n\"\"\"\n\n%s\n%s",
			content, vars["patternContext"], vars["phoneNumbers"])
	}
	return prompt
}

// Variables builds the recognized placeholder set for one extraction request.
func (c *Composer) Variables(ticket domain.TicketContext, product domain.ProductContext, urgency domain.UrgencyInfo, patterns domain.PatternMatches) map[string]string {
	tagContext := formatTagContext(product)
	if tagContext == "" {
		tagContext = "No relevant tags found in the ticket."
	}

	model := product.Model
	if model == "" {
		model = "none found"
	}
	warranty := string(product.WarrantyStatus)
	if warranty == "" {
		warranty = "unknown"
	}

	ticketUrgency := fmt.Sprintf("Ticket age: %d days, Priority: %s", urgency.AgeInDays, urgency.Level)
	if urgency == (domain.UrgencyInfo{}) {
		ticketUrgency = "age, issue severity, and customer impact"
	}

	return map[string]string{
		"ticketId":           ticket.TicketID,
		"tagContext":         tagContext,
		"productModel":       model,
		"warrantyStatus":     warranty,
		"issueCategories":    strings.Join(product.IssueCategories, ", "),
		"returnRepairStatus": strings.Join(product.ReturnRepairStatus, ", "),
		"ticketUrgency":      ticketUrgency,
		"patternContext":     formatPatternContext(patterns),
		"phoneNumbers":       formatPhoneContext(patterns),
		"ticketContent":      ticket.RawContent,
	}
}

func formatTagContext(product domain.ProductContext) string {
	var b strings.Builder
	if product.Model != "" {
		fmt.Fprintf(&b, "- Product model: %s\n", product.Model)
	}
	if len(product.HardwareComponents) > 0 {
		fmt.Fprintf(&b, "- Hardware components mentioned in tags: %s\n", strings.Join(product.HardwareComponents, ", "))
	}
	if len(product.SoftwareContext) > 0 {
		fmt.Fprintf(&b, "- Software context from tags: %s\n", strings.Join(product.SoftwareContext, ", "))
		if product.OSVersion != "" {
			fmt.Fprintf(&b, "- OS version from tags: %s\n", product.OSVersion)
		}
	}
	if len(product.IssueCategories) > 0 {
		fmt.Fprintf(&b, "- Issue categories from tags: %s\n", strings.Join(product.IssueCategories, ", "))
	}
	if len(product.ReturnRepairStatus) > 0 {
		fmt.Fprintf(&b, "- Return/repair status from tags: %s\n", strings.Join(product.ReturnRepairStatus, ", "))
	}
	if len(product.SupportContext) > 0 {
		fmt.Fprintf(&b, "- Support context from tags: %s\n", strings.Join(product.SupportContext, ", "))
	}
	if product.WarrantyStatus != domain.WarrantyUnknown {
		fmt.Fprintf(&b, "- Warranty status from tags: %s\n", product.WarrantyStatus)
	}
	return b.String()
}

func formatPatternContext(patterns domain.PatternMatches) string {
	var b strings.Builder
	if len(patterns.SerialNumbers) > 0 {
		fmt.Fprintf(&b, "Potential serial numbers detected: %s\n", strings.Join(patterns.SerialNumbers, ", "))
	}
	if len(patterns.IMEIs) > 0 {
		fmt.Fprintf(&b, "Potential IMEI numbers detected: %s\n", strings.Join(patterns.IMEIs, ", "))
	}
	if len(patterns.Addresses) > 0 {
		fmt.Fprintf(&b, "Potential addresses detected:\n%s\n", strings.Join(patterns.Addresses, "\n"))
	}
	return b.String()
}

func formatPhoneContext(patterns domain.PatternMatches) string {
	if len(patterns.Phones) == 0 {
		return ""
	}
	return fmt.Sprintf("\nPotential phone numbers detected: %s", strings.Join(patterns.Phones, ", "))
}
