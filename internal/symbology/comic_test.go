package symbology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseComicTitle(t *testing.T) {
	testCases := []struct {
		name     string
		title    string
		expected ComicIssue
	}{
		{
			name:     "year and hash issue",
			title:    "Batman (1940) #404",
			expected: ComicIssue{SeriesKey: "BATM", Era: "40", Volume: 1, Issue: "404", Series: "Batman"},
		},
		{
			name:     "volume marker",
			title:    "Thor (1998) Vol 2 #62",
			expected: ComicIssue{SeriesKey: "THOR", Era: "98", Volume: 2, Issue: "62", Series: "Thor"},
		},
		{
			name:     "specific series before generic",
			title:    "The Amazing Spider-Man (1963) #300",
			expected: ComicIssue{SeriesKey: "ASM", Era: "63", Volume: 1, Issue: "300", Series: "The Amazing Spider-Man"},
		},
		{
			name:     "issue keyword",
			title:    "Uncanny X-Men (1981) Issue 141",
			expected: ComicIssue{SeriesKey: "UXM", Era: "81", Volume: 1, Issue: "141", Series: "Uncanny X-Men"},
		},
		{
			name:     "volume word with dot",
			title:    "Daredevil Volume. 5 #1 (2015)",
			expected: ComicIssue{SeriesKey: "DD", Era: "15", Volume: 5, Issue: "1", Series: "Daredevil"},
		},
		{
			name:     "leading zeros kept",
			title:    "Saga (2012) #001",
			expected: ComicIssue{SeriesKey: "SAGA", Era: "12", Volume: 1, Issue: "001", Series: "Saga"},
		},
		{
			name:     "unknown series falls back to alphanumerics",
			title:    "Monstress (2015) #1",
			expected: ComicIssue{SeriesKey: "MONSTRESS", Era: "15", Volume: 1, Issue: "1", Series: "Monstress"},
		},
		{
			name:     "no year",
			title:    "Spawn #1",
			expected: ComicIssue{SeriesKey: "SPWN", Era: "00", Volume: 1, Issue: "1", Series: "Spawn"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseComicTitle(tc.title, "rec-1"))
		})
	}
}

func TestParseComicTitle_FirstDictionaryMatchWins(t *testing.T) {
	// "hulk" precedes "incredible hulk" in the dictionary.
	assert.Equal(t, "HULK", ParseComicTitle("Incredible Hulk (1968) #181", "").SeriesKey)
	// "batman" precedes "batman detective comics".
	assert.Equal(t, "BATM", ParseComicTitle("Batman Detective Comics (2016) #1000", "").SeriesKey)
	assert.Equal(t, "DETC", ParseComicTitle("Detective Comics (1937) #27", "").SeriesKey)
}

func TestParseComicTitle_IssueHashFallback(t *testing.T) {
	withID := ParseComicTitle("Monstress (2015)", "0b6f7d7e-1")
	assert.Equal(t, IssueHash("0b6f7d7e-1"), withID.Issue)
	assert.Regexp(t, `^[0-9A-F]{4}$`, withID.Issue)

	withoutID := ParseComicTitle("Monstress (2015)", "")
	assert.Equal(t, IssueHash("Monstress (2015)"), withoutID.Issue)

	assert.Equal(t, withID, ParseComicTitle("Monstress (2015)", "0b6f7d7e-1"))
}

func TestComicSymbol(t *testing.T) {
	testCases := []struct {
		title    string
		recordID string
		expected string
	}{
		{"Batman (1940) #404", "", "BATM.40.V1.#404"},
		{"Thor (1998) Vol 2 #62", "", "THOR.98.V2.#62"},
		{"Walking Dead (2003) #100", "", "TWD.03.V1.#100"},
		{"(2020) #5", "", "ASSET.20.V1.#5"},
		{"!!! (1999) #3", "", "ASSET.99.V1.#3"},
		{"", "", "ASSET.00.V1.#D41D"},
	}

	for _, tc := range testCases {
		t.Run(tc.title, func(t *testing.T) {
			assert.Equal(t, tc.expected, ComicSymbol(tc.title, tc.recordID))
		})
	}
}

func TestIssueHash(t *testing.T) {
	// md5("") = d41d8cd98f00b204e9800998ecf8427e
	assert.Equal(t, "D41D", IssueHash(""))
}
