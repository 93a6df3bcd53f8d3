// Package budget maps a requested briefing duration to an article count and
// a narrative structure. It is the single source of truth for both the fetch
// result count and the synthesis word budget; nothing else may hard-code
// either number.
package budget

// Budget describes one duration tier.
type Budget struct {
	Minutes           int
	ArticleCount      int
	Paragraphs        int
	WordsPerParagraph int
	TotalWords        int
	// Structure is the narrative directive embedded verbatim in the
	// generation prompt.
	Structure string
}

var tiers = map[int]Budget{
	1: {
		Minutes:           1,
		ArticleCount:      3,
		Paragraphs:        1,
		WordsPerParagraph: 180,
		TotalWords:        180,
		Structure:         "Write as 1 comprehensive paragraph that covers the most important story with key context.",
	},
	3: {
		Minutes:           3,
		ArticleCount:      8,
		Paragraphs:        3,
		WordsPerParagraph: 180,
		TotalWords:        540,
		Structure: "Write as exactly 3 paragraphs:\n" +
			"- Paragraph 1: Most important/breaking news story\n" +
			"- Paragraph 2: Second most significant story\n" +
			"- Paragraph 3: Additional important developments and brief outlook",
	},
	5: {
		Minutes:           5,
		ArticleCount:      12,
		Paragraphs:        5,
		WordsPerParagraph: 160,
		TotalWords:        800,
		Structure: "Write as exactly 5 paragraphs:\n" +
			"- Paragraph 1: Most important/breaking news story\n" +
			"- Paragraph 2: Second most significant story\n" +
			"- Paragraph 3: Third important story or related developments\n" +
			"- Paragraph 4: Additional news items and market/political context\n" +
			"- Paragraph 5: Summary and outlook",
	},
}

// Resolve returns the tier for the given duration. Unknown durations fall
// back to the 1-minute tier.
func Resolve(minutes int) Budget {
	if b, ok := tiers[minutes]; ok {
		return b
	}
	return tiers[1]
}

// Durations lists the supported tiers in ascending order.
func Durations() []int {
	return []int{1, 3, 5}
}
