package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Job posting status values
const (
	JobStatusOpen       = "open"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
)

// CV document status values
const (
	CVStatusPending    = "pending"
	CVStatusProcessing = "processing"
	CVStatusCompleted  = "completed"
	CVStatusFailed     = "failed"
)

// Activity event types
const (
	ActivityApplied = "applied"
	ActivitySaved   = "saved"
	ActivityViewed  = "viewed"
)

// JobPosting is the canonical job record every source adapter maps into.
type JobPosting struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	CompanyName      string    `json:"company_name"`
	Location         string    `json:"location"`
	ExternalLink     string    `json:"external_link,omitempty"`
	CompanyLogo      string    `json:"company_logo,omitempty"`
	Slug             string    `json:"slug"`
	Tags             []string  `json:"tags"`
	Responsibilities []string  `json:"responsibilities"`
	Qualifications   []string  `json:"qualifications"`
	EmploymentType   string    `json:"employment_type"`
	Source           string    `json:"source"`
	Epoch            int64     `json:"epoch"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CompanyRef is a lazily-created company reference row.
type CompanyRef struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Website string    `json:"website,omitempty"`
}

// SkillTag is one entry in the canonical skill vocabulary.
type SkillTag struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

// CVDocument is an uploaded resume and its parse lifecycle.
type CVDocument struct {
	ID               uuid.UUID       `json:"id"`
	OwnerID          uuid.UUID       `json:"owner_id"`
	OriginalFilename string          `json:"original_filename"`
	Status           string          `json:"status"`
	IsParsed         bool            `json:"is_parsed"`
	ParsedAt         *time.Time      `json:"parsed_at,omitempty"`
	ParsedData       json.RawMessage `json:"parsed_data,omitempty"`
	UploadedAt       time.Time       `json:"uploaded_at"`
}

// Education is one education entry extracted from a CV.
type Education struct {
	ID          uuid.UUID `json:"id"`
	CVID        uuid.UUID `json:"cv_id"`
	Institution string    `json:"institution"`
	Degree      string    `json:"degree,omitempty"`
	Years       string    `json:"years,omitempty"`
}

// WorkExperience is one work history entry extracted from a CV.
type WorkExperience struct {
	ID          uuid.UUID `json:"id"`
	CVID        uuid.UUID `json:"cv_id"`
	Company     string    `json:"company"`
	Title       string    `json:"title,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Description string    `json:"description,omitempty"`
}

// ContactInfo is the single contact record extracted from a CV.
type ContactInfo struct {
	ID    uuid.UUID `json:"id"`
	CVID  uuid.UUID `json:"cv_id"`
	Email string    `json:"email,omitempty"`
	Phone string    `json:"phone,omitempty"`
}

// ActivityEvent records one user interaction with a job posting.
// (user, job, type) is unique; repeat events are idempotent no-ops.
type ActivityEvent struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	JobID     uuid.UUID `json:"job_id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// Recommendation links a CV to a job posting with a 0-100 match score.
type Recommendation struct {
	ID         uuid.UUID `json:"id"`
	CVID       uuid.UUID `json:"cv_id"`
	JobID      uuid.UUID `json:"job_id"`
	MatchScore float64   `json:"match_score"`
	CreatedAt  time.Time `json:"created_at"`
}

// Match is an embedding-path match between a profile and a job,
// keyed uniquely by (profile, job) and upserted.
type Match struct {
	ID         uuid.UUID `json:"id"`
	ProfileID  uuid.UUID `json:"profile_id"`
	JobID      uuid.UUID `json:"job_id"`
	MatchScore float64   `json:"match_score"`
}

// Profile holds the candidate-side text inputs for embedding matches.
type Profile struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	FullName           string    `json:"full_name"`
	Skills             []string  `json:"skills"`
	Experience         []string  `json:"experience"`
	DesiredRole        string    `json:"desired_role,omitempty"`
	DesiredIndustry    string    `json:"desired_industry,omitempty"`
	LocationPreference string    `json:"location_preference,omitempty"`
}
