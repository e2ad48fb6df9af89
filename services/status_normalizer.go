package services

import (
	"strings"

	"github.com/fenilmodi00/ipo-allotment-tracker/models"
)

// statusRule maps a lowercase status text onto a known stage when it matches.
type statusRule struct {
	kind    models.StatusKind
	matches func(lower string) bool
}

// Rules are tried in order. The allotment rule must run before "list" and "open"
// so that text such as "Open - Allotment Out" is not misclassified.
var statusRules = []statusRule{
	{models.StatusAllotmentOut, func(lower string) bool {
		return (strings.Contains(lower, "allotment") && strings.Contains(lower, "out")) ||
			strings.TrimSpace(lower) == "allotted"
	}},
	{models.StatusListed, func(lower string) bool { return strings.Contains(lower, "list") }},
	{models.StatusClosed, func(lower string) bool { return strings.Contains(lower, "close") }},
	{models.StatusOpen, func(lower string) bool { return strings.Contains(lower, "open") }},
	{models.StatusUpcoming, func(lower string) bool { return strings.Contains(lower, "upcom") }},
}

// NormalizeStatus classifies free-text status from the sheet or the AI service.
// Unrecognized text is passed through verbatim; empty text means Upcoming.
func NormalizeStatus(raw string) models.Status {
	if strings.TrimSpace(raw) == "" {
		return models.KnownStatus(models.StatusUpcoming)
	}

	lower := strings.ToLower(raw)
	for _, rule := range statusRules {
		if rule.matches(lower) {
			return models.KnownStatus(rule.kind)
		}
	}
	return models.RawStatus(raw)
}
