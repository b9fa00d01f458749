package extractor

import (
	"fmt"
	"regexp"

	"voice-leads-go/internal/config"
)

// Default real-estate pattern set, in priority order. First capturing group
// of the first match per field becomes the value.
var defaultPatterns = []config.FieldPattern{
	{Field: "full_name", Pattern: `(?i)(?:my name is|this is|i am|i'm)\s+([a-z]+(?:\s+[a-z]+){1,2})`},
	{Field: "phone_number", Pattern: `(\+?\d[\d\-\s().]{6,}\d)`},
	{Field: "email", Pattern: `([a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})`},
	{Field: "property_type", Pattern: `(?i)\b(house|home|condo|condominium|apartment|townhouse|duplex|land|lot|commercial)\b`},
	{Field: "budget", Pattern: `(?i)(?:budget|afford|spend|price range|up to|around)\D{0,12}(\$?\s?[\d,]+(?:\.\d+)?\s*(?:k|thousand|million|m)?)`},
	{Field: "location", Pattern: `(?i)(?:in|near|around|move to|looking in)\s+([a-z]+(?:\s[a-z]+)?(?:\s(?:area|county|neighborhood))?)`},
	{Field: "timeline", Pattern: `(?i)\b(immediately|asap|right away|this week|this month|next month|next year|within\s+\d+\s+(?:days|weeks|months)|in\s+\d+\s+(?:days|weeks|months))\b`},
}

// RealEstateExtractor is the concrete FieldExtractor for buyer/seller calls.
type RealEstateExtractor struct {
	patterns []fieldPattern
}

type fieldPattern struct {
	field string
	re    *regexp.Regexp
}

// NewRealEstateExtractor compiles the pattern set. Patterns from config
// replace the defaults wholesale when present.
func NewRealEstateExtractor(overrides []config.FieldPattern) (*RealEstateExtractor, error) {
	src := defaultPatterns
	if len(overrides) > 0 {
		src = overrides
	}
	ex := &RealEstateExtractor{}
	for _, p := range src {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p.Field, err)
		}
		ex.patterns = append(ex.patterns, fieldPattern{field: p.Field, re: re})
	}
	return ex, nil
}

// Extract applies each pattern once; the first capture of the first match
// per field wins. Fields without a match are simply absent.
func (x *RealEstateExtractor) Extract(transcript string) []FieldValue {
	var out []FieldValue
	for _, p := range x.patterns {
		m := p.re.FindStringSubmatch(transcript)
		if len(m) < 2 || m[1] == "" {
			continue
		}
		out = append(out, FieldValue{Field: p.field, Value: m[1]})
	}
	return out
}
