// Package listing extracts comic metadata from free-text marketplace titles.
package listing

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/rickgao/longbox/internal/model"
)

var (
	companyRe     = regexp.MustCompile(`(?i)\b(CGC|CBCS|PGX)\b`)
	slabGradeRe   = regexp.MustCompile(`(?i)\b(?:CGC|CBCS|PGX)\s*(?:SS|SIGNATURE SERIES|QUALIFIED)?\s*(10(?:\.0)?|[0-9](?:\.[0-9])?)\b`)
	looseGradeRe  = regexp.MustCompile(`\b(10\.0|[0-9]\.[0-9])\b`)
	markedIssueRe = regexp.MustCompile(`(?i)(?:#\s*|\bNo\.?\s*|\bIssue\s+)(\d{1,4}[A-Za-z]?)\b`)
	bareIssueRe   = regexp.MustCompile(`\b(\d{1,4})\b`)
	yearParenRe   = regexp.MustCompile(`\((?:19|20)\d{2}\)`)
	variantRe     = regexp.MustCompile(`(?i)\b(variant|virgin|incentive|foil|cover\s+[b-z]\b|1:\d+)`)
	reprintRe     = regexp.MustCompile(`(?i)\b(reprint|facsimile|second print(?:ing)?|[2-9](?:nd|rd|th)\s+print(?:ing)?)\b`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

var keywordPatterns = []struct {
	keyword string
	re      *regexp.Regexp
}{
	{"first appearance", regexp.MustCompile(`(?i)\b(1st|first)\s+(app(?:earance)?\.?)`)},
	{"key", regexp.MustCompile(`(?i)\bkey\b`)},
	{"signed", regexp.MustCompile(`(?i)\b(signed|autographed|signature series)\b`)},
	{"newsstand", regexp.MustCompile(`(?i)\bnewsstand\b`)},
	{"sketch", regexp.MustCompile(`(?i)\bsketch\b`)},
	{"death", regexp.MustCompile(`(?i)\bdeath of\b`)},
	{"origin", regexp.MustCompile(`(?i)\borigin\b`)},
}

// Parse extracts series, issue, grade and flags from a listing title.
// Confidence reflects how many of the core fields were found.
func Parse(title string) model.ParsedListingMeta {
	var meta model.ParsedListingMeta

	clean := strings.TrimSpace(spaceRe.ReplaceAllString(title, " "))
	if clean == "" {
		return meta
	}

	if m := companyRe.FindStringSubmatch(clean); m != nil {
		meta.GradingCompany = strings.ToUpper(m[1])
	}
	meta.Grade = parseGrade(clean, meta.GradingCompany != "")

	issueStart, issue, marked := findIssue(clean)
	meta.IssueNumber = issue
	if issueStart > 0 {
		meta.SeriesName = cleanSeries(clean[:issueStart])
	} else if issueStart < 0 {
		meta.SeriesName = cleanSeries(cutAtGrade(clean))
	}

	meta.IsVariant = variantRe.MatchString(clean)
	meta.IsReprint = reprintRe.MatchString(clean)

	for _, kp := range keywordPatterns {
		if kp.re.MatchString(clean) {
			meta.Keywords = append(meta.Keywords, kp.keyword)
		}
	}

	meta.Confidence = confidence(meta, marked)
	return meta
}

func parseGrade(title string, slabbed bool) *float64 {
	var raw string
	if slabbed {
		if m := slabGradeRe.FindStringSubmatch(title); m != nil {
			raw = m[1]
		}
	}
	if raw == "" {
		if m := looseGradeRe.FindStringSubmatch(title); m != nil {
			raw = m[1]
		}
	}
	if raw == "" {
		return nil
	}
	g, err := strconv.ParseFloat(raw, 64)
	if err != nil || g < 0.5 || g > 10 {
		return nil
	}
	return &g
}

// findIssue returns the byte offset where the issue token starts (-1 when
// no issue was found), the issue number, and whether an explicit marker
// such as "#" or "No." introduced it.
func findIssue(title string) (int, string, bool) {
	if loc := markedIssueRe.FindStringSubmatchIndex(title); loc != nil {
		return loc[0], normalizeIssue(title[loc[2]:loc[3]]), true
	}

	// Without a marker, take the first bare number that is not a year in
	// parentheses and not part of a decimal grade.
	masked := yearParenRe.ReplaceAllStringFunc(title, func(s string) string {
		return strings.Repeat(" ", len(s))
	})
	masked = looseGradeRe.ReplaceAllStringFunc(masked, func(s string) string {
		return strings.Repeat(" ", len(s))
	})
	masked = slabGradeRe.ReplaceAllStringFunc(masked, func(s string) string {
		return strings.Repeat(" ", len(s))
	})
	for _, loc := range bareIssueRe.FindAllStringSubmatchIndex(masked, -1) {
		if loc[0] == 0 {
			continue
		}
		return loc[0], normalizeIssue(title[loc[2]:loc[3]]), false
	}
	return -1, "", false
}

// normalizeIssue drops leading zeros so "#001" and "#1" compare equal.
func normalizeIssue(n string) string {
	trimmed := strings.TrimLeft(n, "0")
	if trimmed == "" || !unicode.IsDigit(rune(trimmed[0])) {
		return "0" + trimmed
	}
	return trimmed
}

func cutAtGrade(title string) string {
	if loc := companyRe.FindStringIndex(title); loc != nil {
		return title[:loc[0]]
	}
	return title
}

func cleanSeries(s string) string {
	s = yearParenRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, " -:,(")
	return strings.TrimSpace(s)
}

func confidence(meta model.ParsedListingMeta, marked bool) float64 {
	c := 0.0
	if meta.SeriesName != "" {
		c += 0.35
	}
	if meta.IssueNumber != "" {
		c += 0.25
		if marked {
			c += 0.1
		}
	}
	if meta.Grade != nil {
		c += 0.2
	}
	if meta.GradingCompany != "" {
		c += 0.1
	}
	if c > 1 {
		c = 1
	}
	return c
}
