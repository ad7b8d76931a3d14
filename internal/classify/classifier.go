// Package classify maps raw OCR text (plus an optional filename) to a
// document-type category. Classification is pure: same input, same result.
package classify

import (
	"fmt"
	"strings"

	"github.com/homelend/docflow/constants"
)

const (
	keywordShare = 0.6
	regexShare   = 0.4

	// confidence reported when nothing matches
	genericConfidence = 0.1
)

// Result is a classification outcome. Reasons lists every matched keyword
// and pattern for audit.
type Result struct {
	Type       constants.DocumentType `json:"type"`
	Confidence float64                `json:"confidence"` // 0-1
	Reasons    []string               `json:"reasons"`
}

type Classifier struct {
	patterns map[constants.DocumentType]PatternSet
}

func NewClassifier(patterns map[constants.DocumentType]PatternSet) *Classifier {
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	return &Classifier{patterns: patterns}
}

// Classify scores every pattern set against text and filename and returns the
// best match. Empty or unmatchable input classifies as generic, never errors.
func (c *Classifier) Classify(text, filename string) Result {
	haystack := strings.ToLower(text)
	nameHaystack := strings.ToLower(filename)

	best := Result{
		Type:       constants.Generic,
		Confidence: genericConfidence,
		Reasons:    []string{"no specific pattern detected"},
	}
	bestScore := 0.0

	for _, dt := range constants.DocumentTypes() {
		ps, ok := c.patterns[dt]
		if !ok {
			continue
		}

		var reasons []string

		kwHits := 0
		for _, kw := range ps.Keywords {
			if strings.Contains(haystack, kw) || strings.Contains(nameHaystack, kw) {
				kwHits++
				reasons = append(reasons, fmt.Sprintf("keyword: %s", kw))
			}
		}

		reHits := 0
		for _, re := range ps.Regexes {
			if re.MatchString(text) || re.MatchString(filename) {
				reHits++
				reasons = append(reasons, fmt.Sprintf("pattern: %s", re.String()))
			}
		}

		score := 0.0
		if len(ps.Keywords) > 0 {
			score += keywordShare * float64(kwHits) / float64(len(ps.Keywords))
		}
		if len(ps.Regexes) > 0 {
			score += regexShare * float64(reHits) / float64(len(ps.Regexes))
		}
		score *= ps.Weight

		if score > bestScore {
			bestScore = score
			best = Result{Type: dt, Confidence: clamp01(score), Reasons: reasons}
		}
	}

	return best
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
