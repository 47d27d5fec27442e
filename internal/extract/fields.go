package extract

import (
	"regexp"
	"strings"

	"github.com/spec-kit/ticket-intel/internal/domain"
)

// Per-field pattern ladders for re-parsing generated summary prose. Ordered
// strictest first: explicit label, then contextual phrasing, then a loose
// fallback. The first match wins and short-circuits the field.
var (
	orderNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)order\s*(?:number|#|no|num)?(?:\s*(?::|-)?\s*)([a-z0-9-#]+)`),
		regexp.MustCompile(`(?i)\b(?:ord|order|#ord)[:\s-]*([a-z0-9-#]+)`),
		regexp.MustCompile(`(?i)\border\s+(?:is|was|:)?\s*([a-z0-9-#]+)`),
	}

	productPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)product(?:\s*(?:name|type))?(?:\s*(?::|-)?\s*)([^,.\n]+)`),
		regexp.MustCompile(`(?i)(?:a|the)\s+([^,.\n]*?(?:phone|model)\s*\d*[^,.\n]*)`),
		regexp.MustCompile(`(?i)(?:my|using|have)(?:\s+a)?(?:\s+[^,.\n]*)?(?:\s+)(device\s*\d*[^,.\n]*)`),
	}

	serialNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)serial\s*(?:number|#|no|num)?(?:\s*(?::|-)?\s*)([a-z0-9-]+)`),
		regexp.MustCompile(`(?i)\b(?:sn|s/n|serial)[\s:]*([a-z0-9-]+)`),
		regexp.MustCompile(`(?i)\b(?:imei|device\s*id|device\s*number)[\s:]*(\d[\d-]+\d)`),
	}

	purchaseDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:date of purchase|purchase date|bought on|purchased on|ordered on)(?:\s*(?::|-)?\s*)([^,.\n]+)`),
		regexp.MustCompile(`(?i)(?:bought|purchased|ordered|received)(?:\s+it)?(?:\s+on|\s+in|\s+at)(?:\s+the)?(?:\s+)([^,.\n]+)`),
		regexp.MustCompile(`(?i)(?:bought|purchased|ordered|received)(?:\s+in|\s+on)(?:\s+)([a-z]+\s+\d{4})`),
		regexp.MustCompile(`(?i)(?:since|from)\s+([a-z]+\s+\d{4}|(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*[\s,.]+(?:\d{1,2}[,.\s]+)?\d{4}))`),
	}

	returnReasonPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:reason for return|return reason|returning because)(?:\s*(?::|-)?\s*)([^,.\n]+)`),
		regexp.MustCompile(`(?i)(?:issue|problem|defect|broken|not working)(?:\s+is|:|\s+-)?(?:\s*)([^,.\n]+)`),
		regexp.MustCompile(`(?i)(?:complaint|issue description|error)(?:\s*(?::|-)?\s*)([^,.\n]+)`),
	}

	summaryAddressPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)address(?:\s*(?::|-)?\s*)([^,]*,.+?\d{4,}[^,.\n]*)`),
		regexp.MustCompile(`(?i)shipping\s+(?:address|to)(?:\s*(?::|-)?\s*)([^,]*,.+?\d{4,}[^,.\n]*)`),
		regexp.MustCompile(`(?i)delivery\s+(?:address|to)(?:\s*(?::|-)?\s*)([^,]*,.+?\d{4,}[^,.\n]*)`),
	}
)

// FieldExtractor recovers structured fields from a model-generated summary.
// Independent from PatternExtractor: summary prose has a different shape than
// raw ticket text, so the ladders tolerate narrative phrasing.
type FieldExtractor struct{}

// NewFieldExtractor constructs the extractor.
func NewFieldExtractor() *FieldExtractor {
	return &FieldExtractor{}
}

// ExtractFields re-parses summary text. A field with no matching pattern stays
// empty; the extractor never fails.
func (e *FieldExtractor) ExtractFields(summary string) domain.ExtractedFields {
	fields := domain.ExtractedFields{
		BriefSummary:    lastNonBulletLine(summary),
		OrderNumber:     firstMatch(orderNumberPatterns, summary),
		Product:         firstMatch(productPatterns, summary),
		SerialNumber:    firstMatch(serialNumberPatterns, summary),
		DateOfPurchase:  firstMatch(purchaseDatePatterns, summary),
		ReasonForReturn: firstMatch(returnReasonPatterns, summary),
		Address:         firstMatch(summaryAddressPatterns, summary),
	}
	return fields
}

// lastNonBulletLine picks the closing sentence of the summary: the last line
// that is neither blank nor a bullet.
func lastNonBulletLine(summary string) string {
	lines := strings.Split(summary, "\n")
	last := ""
	for _, line := range lines {
		if strings.HasPrefix(line, "-") {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		last = strings.TrimSpace(line)
	}
	return last
}

func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
