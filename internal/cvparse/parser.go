package cvparse

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// ParsedCV is the structured result of parsing one CV's plain text.
type ParsedCV struct {
	Skills         []string              `json:"skills"`
	Education      []EducationEntry      `json:"education"`
	WorkExperience []WorkExperienceEntry `json:"work_experience"`
	Contact        ContactDetails        `json:"contact"`
	RawText        string                `json:"raw_text"`
	ParsedAt       time.Time             `json:"parsed_at"`
}

type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Years       string `json:"years"`
}

type WorkExperienceEntry struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type ContactDetails struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

const (
	emailPattern = `[\w.+-]+@[\w-]+(?:\.[\w-]+)+`
	phonePattern = `(?:\+?\d{1,3}[-.\s]?)?(?:\(\d{3}\)|\d{3})[-.\s]?\d{3}[-.\s]?\d{4}`
)

// Parser extracts skills, sections, and contact details from CV text. The
// skill pattern is compiled once from the vocabulary, so a Parser is cheap
// to reuse across documents.
type Parser struct {
	skillPattern   *regexp.Regexp
	contactPattern *regexp.Regexp
}

// NewParser builds a parser over the given skill vocabulary. Vocabulary
// terms are matched case-insensitively on word boundaries; longer terms win
// over their prefixes ("Machine Learning" before "Machine").
func NewParser(vocab Vocabulary) *Parser {
	names := vocab.Names()
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = regexp.QuoteMeta(name)
	}
	var skillPattern *regexp.Regexp
	if len(quoted) > 0 {
		skillPattern = regexp.MustCompile(`(?i)(?:\b|^)(?:` + strings.Join(quoted, "|") + `)(?:\b|$)`)
	}
	contactPattern := regexp.MustCompile(`(` + emailPattern + `)|(` + phonePattern + `)`)
	return &Parser{skillPattern: skillPattern, contactPattern: contactPattern}
}

// Parse runs the full extraction over one document's text.
func (p *Parser) Parse(text string) ParsedCV {
	flat := strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))

	edu := &educationState{}
	work := &workState{}
	for _, sentence := range sentences(text) {
		edu.feed(sentence)
		work.feed(sentence)
	}

	return ParsedCV{
		Skills:         p.extractSkills(flat),
		Education:      edu.finish(),
		WorkExperience: work.finish(),
		Contact:        p.extractContact(flat),
		RawText:        text,
		ParsedAt:       time.Now().UTC(),
	}
}

// extractSkills returns each vocabulary term found in the text, keeping the
// surface form as written and the order of first appearance. Dedup is
// case-sensitive: "SQL" and "sql" are distinct mentions.
func (p *Parser) extractSkills(text string) []string {
	if p.skillPattern == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var skills []string
	for _, match := range p.skillPattern.FindAllString(text, -1) {
		match = strings.TrimSpace(match)
		if _, ok := seen[match]; ok {
			continue
		}
		seen[match] = struct{}{}
		skills = append(skills, match)
	}
	return skills
}

// extractContact scans for email addresses and phone numbers. When a field
// appears more than once the last occurrence wins.
func (p *Parser) extractContact(text string) ContactDetails {
	var contact ContactDetails
	for _, groups := range p.contactPattern.FindAllStringSubmatch(text, -1) {
		if groups[1] != "" {
			contact.Email = groups[1]
		} else if groups[2] != "" {
			contact.Phone = strings.TrimSpace(groups[2])
		}
	}
	return contact
}
