package cvparse

import (
	"context"
	_ "embed"
	"encoding/json"

	"github.com/skillbridge/jobmatcher/internal/db"
)

//go:embed data/skills.json
var packagedVocabulary []byte

// Vocabulary maps a skill category to the skill names within it.
type Vocabulary map[string][]string

// Names flattens the vocabulary into a single list of skill names.
func (v Vocabulary) Names() []string {
	var names []string
	for _, list := range v {
		names = append(names, list...)
	}
	return names
}

// VocabStore is the store surface for loading and seeding the skill
// vocabulary.
type VocabStore interface {
	ListSkillTags(ctx context.Context) ([]db.SkillTag, error)
	SeedSkillTags(ctx context.Context, byCategory map[string][]string) error
}

// LoadVocabulary returns the skill vocabulary grouped by category. Priority:
// the store first, then the packaged fallback file, then the hardcoded
// default. Whichever fallback is used seeds the store so the next load hits
// the store directly.
func LoadVocabulary(ctx context.Context, store VocabStore) (Vocabulary, error) {
	tags, err := store.ListSkillTags(ctx)
	if err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		byCategory := make(Vocabulary)
		for _, tag := range tags {
			byCategory[tag.Category] = append(byCategory[tag.Category], tag.Name)
		}
		return byCategory, nil
	}

	byCategory := make(Vocabulary)
	if err := json.Unmarshal(packagedVocabulary, &byCategory); err != nil || len(byCategory) == 0 {
		byCategory = defaultVocabulary()
	}

	if err := store.SeedSkillTags(ctx, byCategory); err != nil {
		return nil, err
	}
	return byCategory, nil
}

// defaultVocabulary is the last-resort skill set used when neither the store
// nor the packaged file yields a vocabulary.
func defaultVocabulary() Vocabulary {
	return Vocabulary{
		"programming_languages": {
			"Python", "Java", "JavaScript", "TypeScript", "C++", "C#", "PHP", "Ruby", "Go", "Swift",
			"Kotlin", "Rust", "Scala", "R", "MATLAB", "Perl", "Shell", "SQL", "HTML", "CSS",
		},
		"frameworks_libraries": {
			"React", "Angular", "Vue", "Node.js", "Django", "Flask", "Spring", "Express",
			"ASP.NET", "Ruby on Rails", "Laravel", "Symfony", "jQuery", "Bootstrap", "TensorFlow",
			"PyTorch", "Keras", "Pandas", "NumPy", "SciPy",
		},
		"databases": {
			"MySQL", "PostgreSQL", "MongoDB", "SQLite", "Oracle", "SQL Server", "Redis", "Cassandra",
			"DynamoDB", "Firebase", "ElasticSearch", "Neo4j", "MariaDB",
		},
		"devops_cloud": {
			"Docker", "Kubernetes", "AWS", "Azure", "GCP", "Jenkins", "GitLab CI", "Travis CI",
			"Terraform", "Ansible", "Puppet", "Chef", "Nginx", "Apache", "Linux", "Unix", "Windows Server",
		},
		"data_science_ml": {
			"Machine Learning", "Deep Learning", "Natural Language Processing", "Computer Vision",
			"Data Analysis", "Data Science", "Big Data", "Hadoop", "Spark", "Statistics",
			"Predictive Modeling", "A/B Testing", "Feature Engineering", "Data Visualization",
			"Reinforcement Learning", "Time Series Analysis",
		},
		"soft_skills": {
			"Leadership", "Communication", "Teamwork", "Problem Solving", "Critical Thinking",
			"Project Management", "Time Management", "Adaptability", "Creativity", "Collaboration",
			"Emotional Intelligence", "Presentation Skills", "Negotiation", "Conflict Resolution",
			"Strategic Planning", "Consulting",
		},
	}
}
