package scoring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the vocabularies the engine matches against lead text.
// The zero value is not usable; start from DefaultConfig and override
// individual lists, either in code or from a YAML rules file.
type Config struct {
	// HighValueIndustries earn the full industry bonus. Normalized to
	// lowercase with underscores (e.g. "professional_services").
	HighValueIndustries []string `yaml:"high_value_industries"`

	// PreferredCountries earn the full geography bonus.
	PreferredCountries []string `yaml:"preferred_countries"`

	// TechnologyKeywords indicate an environment a service provider can take
	// over. Each matched term contributes once.
	TechnologyKeywords []string `yaml:"technology_keywords"`

	// PainPointKeywords indicate an acute problem worth more than generic
	// technology fit. Each matched term contributes once.
	PainPointKeywords []string `yaml:"pain_point_keywords"`

	// DecisionMakerTitles are substring-matched against the contact title.
	// Only the first match counts; scanning stops there.
	DecisionMakerTitles []string `yaml:"decision_maker_titles"`

	// UrgencyKeywords are matched against notes; every distinct term counts.
	UrgencyKeywords []string `yaml:"urgency_keywords"`

	// ComplianceKeywords are matched against notes; only the first match counts.
	ComplianceKeywords []string `yaml:"compliance_keywords"`
}

// DefaultConfig returns the built-in scoring vocabularies.
func DefaultConfig() Config {
	return Config{
		HighValueIndustries: []string{
			"technology",
			"healthcare",
			"finance",
			"legal",
			"manufacturing",
			"insurance",
			"real_estate",
			"professional_services",
		},
		PreferredCountries: []string{
			"us",
			"canada",
			"uk",
			"australia",
		},
		TechnologyKeywords: []string{
			"cloud",
			"saas",
			"microsoft 365",
			"office 365",
			"azure",
			"aws",
			"google workspace",
			"vmware",
			"server",
			"network",
			"firewall",
			"backup",
			"voip",
			"cybersecurity",
			"managed services",
			"helpdesk",
		},
		PainPointKeywords: []string{
			"downtime",
			"outage",
			"slow",
			"unreliable",
			"breach",
			"ransomware",
			"phishing",
			"data loss",
			"outgrown",
			"no it staff",
			"support issues",
			"aging hardware",
		},
		DecisionMakerTitles: []string{
			"ceo",
			"cto",
			"cio",
			"owner",
			"president",
			"vp",
			"director",
			"manager",
			"head",
			"chief",
			"founder",
		},
		UrgencyKeywords: []string{
			"urgent",
			"asap",
			"immediately",
			"emergency",
			"critical",
			"deadline",
			"soon",
			"quickly",
			"fast",
			"now",
		},
		ComplianceKeywords: []string{
			"hipaa",
			"gdpr",
			"soc 2",
			"pci",
			"cmmc",
			"nist",
			"iso 27001",
			"compliance",
			"audit",
		},
	}
}

// fileConfig mirrors Config for YAML decoding; empty lists mean "keep default".
type fileConfig struct {
	HighValueIndustries []string `yaml:"high_value_industries"`
	PreferredCountries  []string `yaml:"preferred_countries"`
	TechnologyKeywords  []string `yaml:"technology_keywords"`
	PainPointKeywords   []string `yaml:"pain_point_keywords"`
	DecisionMakerTitles []string `yaml:"decision_maker_titles"`
	UrgencyKeywords     []string `yaml:"urgency_keywords"`
	ComplianceKeywords  []string `yaml:"compliance_keywords"`
}

// LoadConfig reads a YAML rules file and overlays it onto the defaults.
// Lists absent from the file keep their built-in values, so operators can
// override a single vocabulary without restating the rest.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read scoring rules: %w", err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parse scoring rules: %w", err)
	}

	if len(file.HighValueIndustries) > 0 {
		cfg.HighValueIndustries = file.HighValueIndustries
	}
	if len(file.PreferredCountries) > 0 {
		cfg.PreferredCountries = file.PreferredCountries
	}
	if len(file.TechnologyKeywords) > 0 {
		cfg.TechnologyKeywords = file.TechnologyKeywords
	}
	if len(file.PainPointKeywords) > 0 {
		cfg.PainPointKeywords = file.PainPointKeywords
	}
	if len(file.DecisionMakerTitles) > 0 {
		cfg.DecisionMakerTitles = file.DecisionMakerTitles
	}
	if len(file.UrgencyKeywords) > 0 {
		cfg.UrgencyKeywords = file.UrgencyKeywords
	}
	if len(file.ComplianceKeywords) > 0 {
		cfg.ComplianceKeywords = file.ComplianceKeywords
	}

	return cfg, nil
}
