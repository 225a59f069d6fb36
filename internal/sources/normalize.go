package sources

import (
	"strings"
	"time"

	"github.com/skillbridge/jobmatcher/internal/db"
)

// Normalize maps a source-native record into the canonical job posting shape,
// tolerating the field-name variants the boards actually use. The slug is
// left empty; ingestion assigns it. Returns false when the record lacks every
// title-like field and must be dropped.
func Normalize(record RawRecord) (db.JobPosting, bool) {
	title := firstString(record, "title", "position", "name")
	if title == "" {
		return db.JobPosting{}, false
	}

	company := firstString(record, "company", "company_name")
	if company == "" {
		company = "Unknown"
	}

	location := firstString(record, "location", "region")
	if location == "" {
		location = "Remote"
	}

	employmentType := firstString(record, "employment_type", "job_type")
	if employmentType == "" {
		employmentType = "Full-time"
	}

	epoch := int64(0)
	switch v := record["epoch"].(type) {
	case float64:
		epoch = int64(v)
	case int64:
		epoch = v
	case int:
		epoch = int64(v)
	}
	if epoch == 0 {
		epoch = time.Now().Unix()
	}

	source := firstString(record, "source")
	if source == "" {
		source = "external"
	}

	return db.JobPosting{
		Title:            title,
		Description:      firstString(record, "description", "body"),
		CompanyName:      company,
		Location:         location,
		ExternalLink:     firstString(record, "url", "link", "apply_url"),
		CompanyLogo:      firstString(record, "company_logo", "logo"),
		Tags:             stringList(record, "tags", "keywords"),
		Responsibilities: stringList(record, "responsibilities"),
		Qualifications:   stringList(record, "qualifications"),
		EmploymentType:   employmentType,
		Source:           source,
		Epoch:            epoch,
		Status:           db.JobStatusOpen,
	}, true
}

// HasRequiredTriplet reports whether the record carries at least one of the
// canonical title, company and url fields. Records missing all three are
// rejected before persistence.
func HasRequiredTriplet(record RawRecord) bool {
	return firstString(record, "title", "position", "name") != "" ||
		firstString(record, "company", "company_name") != "" ||
		firstString(record, "url", "link", "apply_url") != ""
}

// firstString returns the first non-empty string value among the given keys.
func firstString(record RawRecord, keys ...string) string {
	for _, key := range keys {
		if v, ok := record[key].(string); ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// stringList collects a list-valued field, accepting either a native list or
// a comma-joined string under any of the given keys.
func stringList(record RawRecord, keys ...string) []string {
	for _, key := range keys {
		switch v := record[key].(type) {
		case []any:
			var out []string
			for _, item := range v {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
				}
			}
			if len(out) > 0 {
				return out
			}
		case []string:
			if len(v) > 0 {
				return v
			}
		case string:
			if strings.TrimSpace(v) == "" {
				continue
			}
			var out []string
			for _, part := range strings.Split(v, ",") {
				if trimmed := strings.TrimSpace(part); trimmed != "" {
					out = append(out, trimmed)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return []string{}
}
