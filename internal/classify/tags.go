package classify

import (
	"regexp"
	"strings"

	"github.com/spec-kit/ticket-intel/internal/domain"
)

// Generic product-model tag shape, e.g. "phone-5" or "phone5".
var productModelPattern = regexp.MustCompile(`(?i)^([a-zA-Z]+)[_\-]?(\d+)$`)

// Fixed tag vocabularies. A tag may contribute to several buckets at once
// (e.g. "battery" is both a hardware component and an issue category).
var hardwareIssueTags = []string{
	"screen", "display", "battery", "charging", "usb", "usb-c", "camera", "speaker",
	"microphone", "buttons", "power-button", "volume-buttons", "headphone-jack",
	"sim", "sim-tray", "sd-card", "wifi", "bluetooth", "nfc", "sensors",
}

var softwareIssueTags = []string{
	"software", "os", "update", "android", "app", "apps", "crash", "reboot",
	"bootloop", "frozen", "slow", "performance", "settings", "permissions",
}

var specificIssueTags = map[string]string{
	"physical-damage": "Physical damage",
	"water-damage":    "Water damage",
	"won't-turn-on":   "Won't turn on",
	"won't-charge":    "Won't charge",
	"overheating":     "Overheating",
	"performance":     "Performance issues",
	"battery-drain":   "Battery drain",
	"connectivity":    "Connectivity issues",
}

var returnRepairTags = map[string]string{
	"return-requested":   "Return requested",
	"return-approved":    "Return approved",
	"return-in-progress": "Return in progress",
	"repair-requested":   "Repair requested",
	"repair-approved":    "Repair approved",
	"repair-in-progress": "Repair in progress",
	"warranty-claim":     "Warranty claim",
	"rma":                "Return Merchandise Authorization",
	"refund-requested":   "Refund requested",
	"refund-approved":    "Refund approved",
	"refund-processed":   "Refund processed",
	"replacement":        "Replacement requested",
}

var supportContextTags = map[string]string{
	"first-contact": "First contact",
	"follow-up":     "Follow-up contact",
	"escalated":     "Escalated case",
	"urgent":        "Urgent case",
	"high-priority": "High priority",
	"pre-sales":     "Pre-sales inquiry",
	"post-sales":    "Post-sales support",
	"technical":     "Technical support",
	"billing":       "Billing support",
	"shipping":      "Shipping inquiry",
	"question":      "General question",
	"feedback":      "User feedback",
}

var osVersionPattern = regexp.MustCompile(`(?i)^android-(\d+(?:\.\d+)*)$`)

// Keyword fallback when no tag matches the generic model pattern.
// Organizations customize this to their product naming.
var explicitModelTags = []struct {
	tag        string
	model      string
	generation string
}{
	{"model-a", "Model A", "A"},
	{"model-b", "Model B", "B"},
	{"model-c", "Model C", "C"},
}

// TagClassifier maps a ticket's tag list into structured product context.
type TagClassifier struct{}

// NewTagClassifier constructs the classifier.
func NewTagClassifier() *TagClassifier {
	return &TagClassifier{}
}

// Classify derives product, issue, status and warranty context from tags.
// Pure and total: an empty or unknown tag list yields an empty context.
func (c *TagClassifier) Classify(tags []string) domain.ProductContext {
	ctx := domain.ProductContext{
		IssueCategories:    []string{},
		HardwareComponents: []string{},
		SoftwareContext:    []string{},
		ReturnRepairStatus: []string{},
		SupportContext:     []string{},
		RawTags:            tags,
	}
	if ctx.RawTags == nil {
		ctx.RawTags = []string{}
	}

	// Model detection: generic pattern first, first match wins. Note the
	// pattern deliberately matches tags like "model-5" as brand "Model";
	// see the keyword fallback below for explicit product names.
	for _, tag := range tags {
		if m := productModelPattern.FindStringSubmatch(tag); m != nil {
			ctx.Model = titleCase(m[1]) + " " + m[2]
			ctx.Generation = m[2]
			break
		}
	}
	if ctx.Model == "" {
		for _, known := range explicitModelTags {
			if containsTag(tags, known.tag) {
				ctx.Model = known.model
				ctx.Generation = known.generation
				break
			}
		}
	}

	for _, tag := range tags {
		if containsTag(hardwareIssueTags, tag) {
			ctx.IssueCategories = append(ctx.IssueCategories, humanizeTag(tag))
			ctx.HardwareComponents = append(ctx.HardwareComponents, strings.ReplaceAll(tag, "-", " "))
		}
		if containsTag(softwareIssueTags, tag) {
			ctx.IssueCategories = append(ctx.IssueCategories, humanizeTag(tag))
			ctx.SoftwareContext = append(ctx.SoftwareContext, strings.ReplaceAll(tag, "-", " "))
		}
		if label, ok := specificIssueTags[tag]; ok {
			ctx.IssueCategories = append(ctx.IssueCategories, label)
		}
		if m := osVersionPattern.FindStringSubmatch(tag); m != nil {
			ctx.OSVersion = "Android " + m[1]
			ctx.SoftwareContext = append(ctx.SoftwareContext, "Android "+m[1])
		}
	}

	for _, tag := range tags {
		if label, ok := returnRepairTags[tag]; ok {
			ctx.ReturnRepairStatus = append(ctx.ReturnRepairStatus, label)
		}
	}

	for _, tag := range tags {
		if label, ok := supportContextTags[tag]; ok {
			ctx.SupportContext = append(ctx.SupportContext, label)
		}
	}

	// Warranty: mutually exclusive literals, first match wins in this order.
	switch {
	case containsTag(tags, "in-warranty"):
		ctx.WarrantyStatus = domain.WarrantyInWarranty
	case containsTag(tags, "out-of-warranty"):
		ctx.WarrantyStatus = domain.WarrantyOutOfWarranty
	case containsTag(tags, "warranty-expired"):
		ctx.WarrantyStatus = domain.WarrantyExpired
	case containsTag(tags, "extended-warranty"):
		ctx.WarrantyStatus = domain.WarrantyExtended
	}

	return ctx
}

// humanizeTag capitalizes the first letter and replaces dashes with spaces.
func humanizeTag(tag string) string {
	return titleCase(strings.ReplaceAll(tag, "-", " "))
}

func titleCase(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}

func containsTag(tags []string, target string) bool {
	for _, tag := range tags {
		if tag == target {
			return true
		}
	}
	return false
}
