package greeter

import (
	"context"
	"hash/fnv"
	"strings"
	"time"

	"github.com/magicmirror/magic-mirror/internal/config"
)

// TemplateProvider fills in the embedded time-of-day greeting templates.
// It needs no network and is the fallback for the API-backed providers.
type TemplateProvider struct {
	greetings config.GreetingsConfig
}

// NewTemplateProvider creates a template greeter from the embedded templates.
func NewTemplateProvider(greetings config.GreetingsConfig) *TemplateProvider {
	return &TemplateProvider{greetings: greetings}
}

// Name returns the provider name.
func (p *TemplateProvider) Name() string {
	return "template"
}

// Greet picks a template for the current part of day and substitutes the
// visitor name. The pick is a stable hash of name and date, so the same
// visitor sees the same line all day but a different one tomorrow.
func (p *TemplateProvider) Greet(ctx context.Context, visitorName string, now time.Time) (string, error) {
	templates := p.templatesFor(visitorName, now)
	if len(templates) == 0 {
		if visitorName == "" {
			return "Hello!", nil
		}
		return "Hello, " + visitorName + "!", nil
	}

	h := fnv.New32a()
	h.Write([]byte(visitorName))
	h.Write([]byte(now.Format("2006-01-02")))
	tmpl := templates[h.Sum32()%uint32(len(templates))]

	return strings.ReplaceAll(tmpl, "{name}", visitorName), nil
}

func (p *TemplateProvider) templatesFor(visitorName string, now time.Time) []string {
	if visitorName == "" {
		return p.greetings.Unknown
	}
	switch PartOfDay(now) {
	case Morning:
		return p.greetings.Morning
	case Afternoon:
		return p.greetings.Afternoon
	default:
		return p.greetings.Evening
	}
}
