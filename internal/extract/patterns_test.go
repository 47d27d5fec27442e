package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractIMEINotReportedAsPhone(t *testing.T) {
	e := NewPatternExtractor()
	got := e.Extract("IMEI: 356938035643809")

	assert.Equal(t, []string{"356938035643809"}, got.IMEIs)
	assert.Empty(t, got.Phones)
	assert.Empty(t, got.SerialNumbers, "a 15-digit sequence is an IMEI, not a serial")
}

func TestExtractPhoneContextClaimsDigits(t *testing.T) {
	e := NewPatternExtractor()
	got := e.Extract("Call me at 0612345678. The device IMEI: 356938035643809.")

	assert.Equal(t, []string{"0612345678"}, got.Phones)
	assert.Equal(t, []string{"356938035643809"}, got.IMEIs)
}

func TestExtractSerialWithContext(t *testing.T) {
	e := NewPatternExtractor()
	got := e.Extract("Serial number: AB12-CD34-EF56. It stopped working last week.")

	assert.Equal(t, []string{"AB12-CD34-EF56"}, got.SerialNumbers)
}

func TestExtractSerialBareUppercaseFallback(t *testing.T) {
	e := NewPatternExtractor()
	got := e.Extract("The label on the box reads XK92-TT41-9Q8Z and nothing else.")

	assert.Equal(t, []string{"XK92-TT41-9Q8Z"}, got.SerialNumbers)
}

func TestExtractEmail(t *testing.T) {
	e := NewPatternExtractor()
	got := e.Extract("You can reach me at john.doe@example.com anytime.")

	assert.Equal(t, []string{"john.doe@example.com"}, got.Emails)
}

func TestExtractAddressWithContext(t *testing.T) {
	e := NewPatternExtractor()
	got := e.Extract("My shipping address is 1234 Elm Street Apt 5, Springfield 12345")

	require.Len(t, got.Addresses, 1)
	assert.Equal(t, "1234 Elm Street Apt 5, Springfield 12345", got.Addresses[0])
}

func TestExtractAddressLineScanFallback(t *testing.T) {
	e := NewPatternExtractor()
	text := "Hi\nJohn Doe\n1234 Main Street, Springfield 12345\nZIP\nThanks"
	got := e.Extract(text)

	require.Len(t, got.Addresses, 1)
	assert.Equal(t, "John Doe, 1234 Main Street, Springfield 12345, Thanks", got.Addresses[0])
}

func TestExtractIsDeterministic(t *testing.T) {
	e := NewPatternExtractor()
	text := "Call me at 0612345678.\nSerial number: AB12-CD34-EF56.\n" +
		"IMEI: 356938035643809\nEmail john.doe@example.com\n" +
		"My shipping address is 1234 Elm Street Apt 5, Springfield 12345"

	first := e.Extract(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Extract(text))
	}
}

func TestExtractEmptyText(t *testing.T) {
	e := NewPatternExtractor()
	got := e.Extract("")
	assert.True(t, got.IsEmpty())
}
