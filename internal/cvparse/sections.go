package cvparse

import (
	"regexp"
	"strings"
	"unicode"
)

// Section keywords flip the accumulator into its section; the keyword
// sentence itself contributes no fields.
var (
	educationKeywords = []string{"education", "academic background", "qualifications", "degree"}
	workKeywords      = []string{"experience", "employment", "work history", "professional background"}
)

var (
	degreePatterns = []string{"Bachelor", "Master", "PhD", "BSc", "MSc", "BA", "MA", "B.A.", "M.A.", "M.S.", "B.S."}
	jobTitleWords  = []string{"Engineer", "Developer", "Manager", "Director", "Analyst", "Consultant", "Designer"}
)

var (
	yearRangePattern = regexp.MustCompile(`(19|20)\d{2}\s*(-|–|to)\s*(19|20)\d{2}|^(19|20)\d{2}$`)
	durationPattern  = regexp.MustCompile(`(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4}\s*(-|–|to)\s*(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4}|^\d{4}\s*(-|–|to)\s*\d{4}$`)

	// orgPattern is a rule-based stand-in for organization NER: a capitalized
	// phrase anchored on a company or institution suffix, optionally followed
	// by an "of Somewhere" tail.
	orgPattern = regexp.MustCompile(`(?:[A-Z][A-Za-z&.'-]+\s+)*(?:University|College|Institute|School|Academy|Inc|Ltd|LLC|Corp|Corporation|Company|Technologies|Technology|Solutions|Labs|Systems|Group|Software|GmbH)\.?(?:\s+of(?:\s+[A-Z][A-Za-z'-]+)+)?`)

	sentenceBreak = regexp.MustCompile(`[.!?]\s+|\n+`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

var degreeRegexps = compileKeywordRegexps(degreePatterns, `\b%s[^,;.]*`)
var titleRegexps = compileKeywordRegexps(jobTitleWords, `[A-Za-z]+\s+%s|%s\s+[A-Za-z]+`)

func compileKeywordRegexps(keywords []string, shape string) map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(keywords))
	for _, kw := range keywords {
		quoted := regexp.QuoteMeta(kw)
		pattern := strings.ReplaceAll(shape, "%s", quoted)
		out[kw] = regexp.MustCompile(pattern)
	}
	return out
}

// sentences splits raw text into sentence-like units, treating line breaks
// and terminal punctuation as boundaries. Each unit has its whitespace
// collapsed. CVs are mostly line-structured, so newlines must count as
// boundaries or whole sections collapse into one unit.
func sentences(text string) []string {
	parts := sentenceBreak.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		cleaned := strings.TrimSpace(whitespaceRun.ReplaceAllString(part, " "))
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// isHeading reports whether a sentence looks like a new section heading:
// starts with an uppercase letter and is short.
func isHeading(sentence string) bool {
	if len(sentence) >= 50 {
		return false
	}
	for _, r := range sentence {
		return unicode.IsUpper(r)
	}
	return false
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func findOrg(sentence string) string {
	return strings.TrimSpace(orgPattern.FindString(sentence))
}

func findDegree(sentence string) string {
	for _, kw := range degreePatterns {
		if strings.Contains(sentence, kw) {
			if m := degreeRegexps[kw].FindString(sentence); m != "" {
				return strings.TrimSpace(m)
			}
		}
	}
	return ""
}

func findJobTitle(sentence string) string {
	for _, kw := range jobTitleWords {
		if strings.Contains(sentence, kw) {
			if m := titleRegexps[kw].FindString(sentence); m != "" {
				return strings.TrimSpace(m)
			}
		}
	}
	return ""
}

// educationState is the finite-state accumulator for the education section.
type educationState struct {
	inSection bool
	current   EducationEntry
	entries   []EducationEntry
}

// feed advances the state machine by one sentence.
func (s *educationState) feed(sentence string) {
	lower := strings.ToLower(sentence)
	if containsAny(lower, educationKeywords) {
		s.inSection = true
		return
	}
	if !s.inSection {
		return
	}

	if isHeading(sentence) {
		s.flush()
	}

	if org := findOrg(sentence); org != "" && s.current.Institution == "" {
		s.current.Institution = org
	}
	if degree := findDegree(sentence); degree != "" && s.current.Degree == "" {
		s.current.Degree = degree
	}
	if years := yearRangePattern.FindString(sentence); years != "" && s.current.Years == "" {
		s.current.Years = years
	}
}

func (s *educationState) flush() {
	if s.current.Institution != "" || s.current.Degree != "" {
		s.entries = append(s.entries, s.current)
	}
	s.current = EducationEntry{}
}

// finish flushes the in-progress record. Required at stream end: without it
// the last section's entries are lost in documents that never hit another
// heading.
func (s *educationState) finish() []EducationEntry {
	s.flush()
	return s.entries
}

// workState is the finite-state accumulator for the work experience section.
type workState struct {
	inSection bool
	current   WorkExperienceEntry
	entries   []WorkExperienceEntry
}

func (s *workState) feed(sentence string) {
	lower := strings.ToLower(sentence)
	if containsAny(lower, workKeywords) {
		s.inSection = true
		return
	}
	if !s.inSection {
		return
	}

	if isHeading(sentence) {
		s.flush()
	}

	if org := findOrg(sentence); org != "" && s.current.Company == "" {
		s.current.Company = org
	}
	if title := findJobTitle(sentence); title != "" && s.current.Title == "" {
		s.current.Title = title
	}
	if duration := durationPattern.FindString(sentence); duration != "" && s.current.Duration == "" {
		s.current.Duration = duration
	}

	// Description accumulates every in-section sentence once the record has
	// an anchor field.
	if s.current.Company != "" || s.current.Title != "" {
		s.current.Description += sentence + " "
	}
}

func (s *workState) flush() {
	if s.current.Company != "" || s.current.Title != "" {
		s.current.Description = strings.TrimSpace(s.current.Description)
		s.entries = append(s.entries, s.current)
	}
	s.current = WorkExperienceEntry{}
}

func (s *workState) finish() []WorkExperienceEntry {
	s.flush()
	return s.entries
}
