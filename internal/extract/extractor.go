// Package extract pulls structured fields out of OCR text using
// document-type-specific pattern tables. Extraction is deliberately
// rule-based; fields that fail to match are absent, never defaulted.
package extract

import (
	"time"

	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/entity"
)

type Extractor struct {
	rules map[constants.DocumentType][]FieldRule
	now   func() time.Time
}

type Option func(*Extractor)

// WithClock overrides the metadata timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

func NewExtractor(rules map[constants.DocumentType][]FieldRule, opts ...Option) *Extractor {
	if rules == nil {
		rules = DefaultRules()
	}
	e := &Extractor{rules: rules, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract applies the rule table for docType to text. For each field the
// patterns run in priority order and the first accepted capture wins; later
// patterns for that field are skipped. Missing fields are absent from the map.
func (e *Extractor) Extract(text string, docType constants.DocumentType) (entity.FieldMap, entity.ExtractionMetadata) {
	fields := entity.FieldMap{}
	rules := e.rules[docType]

	for _, rule := range rules {
		for _, p := range rule.Patterns {
			m := p.Regex.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			value := m[0]
			if len(m) > 1 {
				value = m[1]
			}
			if p.Validate != nil && !p.Validate(value) {
				continue
			}
			if p.Numeric {
				if v, err := parseAmount(value); err == nil {
					fields[rule.Field] = v
				} else {
					continue
				}
			} else {
				fields[rule.Field] = trimValue(value)
			}
			break
		}
	}

	meta := entity.ExtractionMetadata{
		ProcessedAt: e.now(),
		Confidence:  e.confidence(len(fields), len(rules)),
		Edited:      false,
	}
	return fields, meta
}

// confidence is a naive certainty heuristic: how much of the rule table
// actually matched. Types without rules (generic) sit at a low floor.
func (e *Extractor) confidence(matched, total int) int {
	if total == 0 {
		return 30
	}
	score := 40 + (55*matched)/total
	if score > 95 {
		score = 95
	}
	return score
}

func trimValue(s string) string {
	// strip trailing OCR line noise
	for len(s) > 0 {
		last := s[len(s)-1]
		if last == ' ' || last == '\r' || last == '.' || last == ',' {
			s = s[:len(s)-1]
			continue
		}
		break
	}
	return s
}
