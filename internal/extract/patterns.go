package extract

import (
	"regexp"
	"strings"

	"github.com/spec-kit/ticket-intel/internal/domain"
)

// Layered identifier patterns. Context-anchored variants run first so that a
// digit sequence introduced as a phone number is never reported as an IMEI or
// serial, and vice versa.
var (
	phoneContextPattern = regexp.MustCompile(`(?i)(?:(?:phone|telephone|contact|call|mobile)(?:\s+(?:me|at|on|number|#))?(?:\s*(?::|is|at|=)?\s*)|my\s+number\s+is\s*(?::|-)?\s*)((?:\+?\d{1,3}[-\s]?)?\(?\d{3,4}\)?[-\s]?\d{3,4}[-\s]?\d{3,4})`)
	phoneBarePattern    = regexp.MustCompile(`\b(?:\+\d{1,3}[-\s]?)?\(?\d{3,4}\)?[-\s]?\d{3,4}[-\s]?\d{3,4}\b`)

	imeiBarePattern    = regexp.MustCompile(`\b\d{15}\b`)
	imeiContextPattern = regexp.MustCompile(`(?i)(?:imei|device\s+id|serial)(?:\s*(?::|number|#|is|=)?\s*)(\d{15})`)

	serialContextPattern = regexp.MustCompile(`(?i)(?:serial\s*(?:number|#|no|num)?|s/n|device\s+id)(?:\s*(?::|is|=)?\s*)([a-z0-9][-a-z0-9\s]{6,25}[a-z0-9])`)
	// Bare fallback stays case-sensitive: lowercase prose should not look
	// like a serial number.
	serialBarePattern = regexp.MustCompile(`\b(?:[A-Z0-9]{4,}[-\s]?){2,}\b`)

	emailPattern = regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`)

	addressContextPattern = regexp.MustCompile(`(?i)(?:(?:shipping|delivery|billing|home|my)\s+address|address\s+is|send\s+(?:it|this)\s+to|live\s+(?:at|in))(?:\s*(?::|=|is)?\s*)([^:,.]{10,100}(?:[.,]\s*[a-z0-9][^:,.]{5,30}){1,3})`)
	postalCodePattern     = regexp.MustCompile(`(?i)\b\d{4,6}(?:[-\s][A-Z]{2})?\b`)
	streetKeywordPattern  = regexp.MustCompile(`(?i)street|ave|road|boulevard|lane|drive|place|court|square|st\.|rd\.|dr\.|pl\.|apt|app|avenue`)

	digitsOnlyPattern = regexp.MustCompile(`\D`)
	imeiShapePattern  = regexp.MustCompile(`^\d{15}$`)
)

// PatternExtractor scans raw ticket text for candidate identifiers.
type PatternExtractor struct{}

// NewPatternExtractor constructs the extractor.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// Extract recovers serial numbers, IMEIs, addresses, emails and phone numbers
// from unstructured text. Pure and deterministic; absence of a match is a
// normal result, never an error.
func (e *PatternExtractor) Extract(text string) domain.PatternMatches {
	matches := domain.PatternMatches{}

	contextPhones := captureAll(phoneContextPattern, text)

	// IMEIs: bare 15-digit sequences minus anything already claimed as a
	// phone number, unioned with explicit IMEI-context matches.
	var imeis []string
	for _, candidate := range imeiBarePattern.FindAllString(text, -1) {
		if !anyContains(contextPhones, candidate) {
			imeis = append(imeis, candidate)
		}
	}
	imeis = append(imeis, captureAll(imeiContextPattern, text)...)
	matches.IMEIs = dedupe(imeis)

	// Serial numbers: explicit context first, then bare uppercase blocks
	// filtered to exclude IMEI- or phone-shaped strings.
	serials := captureAll(serialContextPattern, text)
	for _, candidate := range serialBarePattern.FindAllString(text, -1) {
		candidate = strings.TrimSpace(candidate)
		if imeiShapePattern.MatchString(candidate) {
			continue
		}
		if anyContains(contextPhones, candidate) {
			continue
		}
		if len(candidate) < 8 || len(candidate) > 30 {
			continue
		}
		serials = append(serials, candidate)
	}
	matches.SerialNumbers = dedupe(serials)

	matches.Emails = dedupe(emailPattern.FindAllString(text, -1))

	if len(contextPhones) > 0 {
		matches.Phones = dedupe(contextPhones)
	} else {
		var phones []string
		for _, candidate := range phoneBarePattern.FindAllString(text, -1) {
			digits := digitsOnlyPattern.ReplaceAllString(candidate, "")
			if imeiShapePattern.MatchString(digits) {
				continue
			}
			phones = append(phones, candidate)
		}
		matches.Phones = dedupe(phones)
	}

	addresses := captureAll(addressContextPattern, text)
	if len(addresses) == 0 {
		addresses = scanAddressLines(text)
	}
	matches.Addresses = dedupe(addresses)

	return matches
}

// scanAddressLines is the fallback address heuristic: a line containing a
// postal-code-shaped token and a street-type keyword anchors a block of up to
// two neighboring lines on each side.
func scanAddressLines(text string) []string {
	lines := strings.Split(text, "\n")
	var addresses []string
	for i := range lines {
		line := strings.TrimSpace(lines[i])
		if !postalCodePattern.MatchString(line) {
			continue
		}
		if len(line) <= 10 || len(line) >= 100 {
			continue
		}
		if !streetKeywordPattern.MatchString(line) {
			continue
		}

		var block []string
		for j := max(0, i-2); j <= min(len(lines)-1, i+2); j++ {
			neighbor := strings.TrimSpace(lines[j])
			if len(neighbor) > 3 && len(neighbor) < 100 {
				block = append(block, neighbor)
			}
		}
		if len(block) > 0 {
			addresses = append(addresses, strings.Join(block, ", "))
		}
	}
	return addresses
}

// captureAll returns the trimmed first capture group of every match.
func captureAll(pattern *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range pattern.FindAllStringSubmatch(text, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

func anyContains(haystacks []string, needle string) bool {
	for _, h := range haystacks {
		if strings.Contains(h, needle) {
			return true
		}
	}
	return false
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
