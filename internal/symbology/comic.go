package symbology

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultEra is used when a title carries no parenthesized year.
	DefaultEra = "00"
	// DefaultVolume is used when a title carries no volume marker.
	DefaultVolume = 1
	// IssueHashLength is the length of the fallback issue token.
	IssueHashLength = 4
	// EmptySeriesKey stands in when nothing alphanumeric is left of the series.
	EmptySeriesKey = "ASSET"
)

var (
	yearPattern       = regexp.MustCompile(`\((\d{4})\)`)
	volumePattern     = regexp.MustCompile(`(?i)\bvol(?:ume)?\.?\s*(\d+)`)
	hashIssuePattern  = regexp.MustCompile(`#(\d+)`)
	wordIssuePattern  = regexp.MustCompile(`(?i)\bissue\s+(\d+)`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// ComicIssue is the parsed form of a comic title.
type ComicIssue struct {
	SeriesKey string `json:"series_key"`
	Era       string `json:"era"`
	Volume    int    `json:"volume"`
	Issue     string `json:"issue"`
	// Series is the title text left once year, volume and issue are removed.
	Series string `json:"series"`
}

// Rendered returns SERIESKEY.EE.Vn.#ISSUE.
func (c ComicIssue) Rendered() string {
	return fmt.Sprintf("%s.%s.V%d.#%s", c.SeriesKey, c.Era, c.Volume, c.Issue)
}

// ComicSymbol is ParseComicTitle(title, recordID).Rendered().
func ComicSymbol(title, recordID string) string {
	return ParseComicTitle(title, recordID).Rendered()
}

// ParseComicTitle extracts the era, volume and issue embedded in a free-text
// title and maps the remaining series name to its key. recordID seeds the
// issue token when the title has no issue number; the title is used when
// recordID is empty.
func ParseComicTitle(title, recordID string) ComicIssue {
	issue := ComicIssue{Era: DefaultEra, Volume: DefaultVolume}
	series := title

	if m := yearPattern.FindStringSubmatchIndex(series); m != nil {
		year := series[m[2]:m[3]]
		issue.Era = year[2:]
		series = series[:m[0]] + " " + series[m[1]:]
	}

	if m := volumePattern.FindStringSubmatchIndex(series); m != nil {
		if v, err := strconv.Atoi(series[m[2]:m[3]]); err == nil {
			issue.Volume = v
		}
		series = series[:m[0]] + " " + series[m[1]:]
	}

	if m := hashIssuePattern.FindStringSubmatchIndex(series); m != nil {
		issue.Issue = series[m[2]:m[3]]
		series = series[:m[0]] + " " + series[m[1]:]
	} else if m := wordIssuePattern.FindStringSubmatchIndex(series); m != nil {
		issue.Issue = series[m[2]:m[3]]
		series = series[:m[0]] + " " + series[m[1]:]
	} else {
		seed := recordID
		if seed == "" {
			seed = title
		}
		issue.Issue = IssueHash(seed)
	}

	issue.Series = strings.TrimSpace(whitespacePattern.ReplaceAllString(series, " "))
	issue.SeriesKey = SeriesKey(issue.Series)
	return issue
}

// SeriesKey maps series text to its dictionary abbreviation, falling back to
// the uppercased alphanumerics of the text.
func SeriesKey(series string) string {
	lower := strings.ToLower(series)
	for _, entry := range SeriesDictionary {
		if strings.Contains(lower, entry.Pattern) {
			return entry.Abbreviation
		}
	}
	if key := cleanAlnum(strings.TrimSpace(series)); key != "" {
		return key
	}
	return EmptySeriesKey
}

// IssueHash is the uppercased first four hex digits of the MD5 of seed.
func IssueHash(seed string) string {
	sum := md5.Sum([]byte(seed))
	return strings.ToUpper(hex.EncodeToString(sum[:]))[:IssueHashLength]
}
