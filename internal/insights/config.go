package insights

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/godilite/feedback-insights/internal/feedback"
)

// Severity grades how loud an issue category is.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Level assigns Severity to counts strictly above Above.
type Level struct {
	Severity Severity `yaml:"severity"`
	Above    int      `yaml:"above"`
}

// SentimentGroups decides which categories count as negative or positive.
type SentimentGroups struct {
	Negative []feedback.Category `yaml:"negative"`
	Positive []feedback.Category `yaml:"positive"`
}

// Config holds the product heuristics used for the overview.
type Config struct {
	Levels    []Level         `yaml:"levels"`
	Sentiment SentimentGroups `yaml:"sentiment"`
}

var ErrInvalidConfig = errors.New("invalid insights config")

// DefaultConfig returns the dashboard's stock thresholds and groupings.
func DefaultConfig() Config {
	return Config{
		Levels: []Level{
			{Severity: SeverityCritical, Above: 1000},
			{Severity: SeverityHigh, Above: 600},
			{Severity: SeverityMedium, Above: 400},
			{Severity: SeverityLow, Above: 200},
		},
		Sentiment: SentimentGroups{
			Negative: feedback.IssueCategories(),
			Positive: []feedback.Category{feedback.Positive},
		},
	}
}

// LoadConfig reads a YAML file. An empty path or a missing file yields the
// defaults; sections left out of the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	def := DefaultConfig()
	if path == "" {
		return def, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return def, nil
		}
		return Config{}, fmt.Errorf("failed to read insights config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(cfg.Levels) == 0 {
		cfg.Levels = def.Levels
	}
	if len(cfg.Sentiment.Negative) == 0 {
		cfg.Sentiment.Negative = def.Sentiment.Negative
	}
	if len(cfg.Sentiment.Positive) == 0 {
		cfg.Sentiment.Positive = def.Sentiment.Positive
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the levels and groups and sorts levels from the highest
// threshold down.
func (c *Config) Validate() error {
	seen := make(map[int]struct{}, len(c.Levels))
	for _, l := range c.Levels {
		if l.Severity == "" || l.Severity == SeverityNone {
			return fmt.Errorf("%w: level above %d has no severity", ErrInvalidConfig, l.Above)
		}
		if l.Above < 0 {
			return fmt.Errorf("%w: negative threshold %d", ErrInvalidConfig, l.Above)
		}
		if _, dup := seen[l.Above]; dup {
			return fmt.Errorf("%w: duplicate threshold %d", ErrInvalidConfig, l.Above)
		}
		seen[l.Above] = struct{}{}
	}
	groups := append(append([]feedback.Category{}, c.Sentiment.Negative...), c.Sentiment.Positive...)
	for _, cat := range groups {
		if !feedback.IsKnown(string(cat)) {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidConfig, cat)
		}
	}
	sort.Slice(c.Levels, func(i, j int) bool { return c.Levels[i].Above > c.Levels[j].Above })
	return nil
}
