// Package classify derives a boolean verdict from raw evidence text.
package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultPriceThreshold is the domain threshold a quoted price is compared
// against when the text carries no explicit yes/no assertion.
const DefaultPriceThreshold = 50000

var pricePattern = regexp.MustCompile(`the price is \$?([0-9][0-9,]*(?:\.[0-9]+)?)`)

// rule is one tier of the classification chain. matched reports whether
// the rule fired; when it did, verdict is final and later tiers are skipped.
type rule func(text, firstSentence string) (verdict, matched bool)

// Classifier turns evidence prose into a yes/no verdict through an ordered
// fallback chain: explicit lexical cue, then a price-vs-threshold
// comparison, then comparative phrase heuristics, then a conservative
// false. It never fails on ambiguous input.
type Classifier struct {
	Threshold float64
}

func New() *Classifier {
	return &Classifier{Threshold: DefaultPriceThreshold}
}

func (c *Classifier) Classify(text string) bool {
	lowered := strings.ToLower(text)
	first := firstSentence(lowered)

	rules := []rule{
		explicitCue,
		c.priceRule,
		c.comparativePhrases,
		weakPhraseCheck,
	}

	for _, r := range rules {
		if verdict, ok := r(lowered, first); ok {
			return verdict
		}
	}
	return false
}

// explicitCue scans the first sentence for a bare "yes" or "no" token.
// The first occurrence of either wins.
func explicitCue(_, firstSentence string) (bool, bool) {
	for _, word := range strings.Fields(firstSentence) {
		switch strings.Trim(word, ".,:;!?\"'()") {
		case "yes":
			return true, true
		case "no":
			return false, true
		}
	}
	return false, false
}

// priceRule extracts the decimal quantity following "the price is" and
// compares it against the threshold.
func (c *Classifier) priceRule(text, _ string) (bool, bool) {
	m := pricePattern.FindStringSubmatch(text)
	if m == nil {
		return false, false
	}

	n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return false, false
	}
	return n > c.Threshold, true
}

// comparativePhrases looks for fixed phrases asserting the price sits
// above the threshold, in either plain or comma-grouped form.
func (c *Classifier) comparativePhrases(text, _ string) (bool, bool) {
	for _, figure := range thresholdFigures(c.Threshold) {
		for _, prefix := range []string{"trading above $", "above $", "over $"} {
			if strings.Contains(text, prefix+figure) {
				return true, true
			}
		}
	}
	return false, false
}

// weakPhraseCheck is the last-resort signal before defaulting to false.
func weakPhraseCheck(_, firstSentence string) (bool, bool) {
	if strings.Contains(firstSentence, "trading above") {
		return true, true
	}
	return false, false
}

func thresholdFigures(threshold float64) []string {
	plain := strconv.FormatFloat(threshold, 'f', -1, 64)
	return []string{plain, groupThousands(plain)}
}

func groupThousands(s string) string {
	whole := s
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole = s[:i]
	}

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + strings.TrimPrefix(s, whole)
}

func firstSentence(text string) string {
	if i := strings.IndexAny(text, ".!?"); i >= 0 {
		return text[:i]
	}
	return text
}
