// Package greeter composes the greeting line the mirror displays after a
// recognition. The default provider fills in time-of-day templates; the
// OpenAI and Gemini providers generate a personalized one-liner and fall back
// to templates when the API call fails.
package greeter

import (
	"context"
	"time"
)

// Provider produces a greeting for a recognized visitor. An empty name means
// nobody was recognized.
type Provider interface {
	Name() string
	Greet(ctx context.Context, visitorName string, now time.Time) (string, error)
}

// DayPart buckets a wall-clock time the way the greeting templates expect.
type DayPart string

const (
	Morning   DayPart = "morning"
	Afternoon DayPart = "afternoon"
	Evening   DayPart = "evening"
)

// PartOfDay maps an hour to its greeting bucket.
func PartOfDay(now time.Time) DayPart {
	switch h := now.Hour(); {
	case h < 12:
		return Morning
	case h < 18:
		return Afternoon
	default:
		return Evening
	}
}
