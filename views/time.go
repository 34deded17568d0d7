package views

import (
	"regexp"
	"strings"
	"time"
)

// Layouts the brokers have been seen using for order and fill times.
// Paper orders use RFC3339; the live report uses 02-Jan-2006.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02-Jan-2006 15:04:05",
	"02-Jan-2006 15:04",
}

var clockPattern = regexp.MustCompile(`\d{1,2}:\d{2}`)

// displayTime renders a raw time string as HH:MM. Three tiers: a full
// date-time parse, then a bare H:MM substring taken verbatim, then the
// given fallback ("--" for orders, the raw string itself for trades).
func displayTime(raw, fallback string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fallback
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04")
		}
	}
	if m := clockPattern.FindString(s); m != "" {
		return m
	}
	return fallback
}
