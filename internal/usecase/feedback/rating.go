package feedback

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const (
	minRating     = 1
	maxRating     = 5
	neutralRating = 3
)

var explicitRating = []*regexp.Regexp{
	regexp.MustCompile(`\b([1-5])\s*/\s*5\b`),
	regexp.MustCompile(`\b([1-5])\s+out\s+of\s+5\b`),
	regexp.MustCompile(`\b([1-5])\s*(?:-\s*)?stars?\b`),
}

var (
	positiveWords = []string{"excellent", "amazing", "great", "love", "perfect", "awesome", "good", "happy"}
	negativeWords = []string{"terrible", "awful", "worst", "hate", "bad", "poor", "broken", "disappointed"}
)

var wordSplitter = regexp.MustCompile(`[a-z]+`)

// ExtractRating infers a 1..5 rating from review text.
// Explicit ratings ("4/5", "3 out of 5", "5 stars") win; otherwise keyword
// sentiment is scored, and text without signal rates neutral.
func ExtractRating(text string) int {
	lower := strings.ToLower(text)

	for _, re := range explicitRating {
		if m := re.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				return v
			}
		}
	}

	score := 0
	for _, w := range wordSplitter.FindAllString(lower, -1) {
		switch {
		case slices.Contains(positiveWords, w):
			score++
		case slices.Contains(negativeWords, w):
			score--
		}
	}

	return clampRating(neutralRating + score)
}

func clampRating(r int) int {
	return max(minRating, min(maxRating, r))
}
