// Package config loads the browsing core's tunables from a YAML file.
// Every field has a default so the core runs with no config file at all;
// values are consumed read-only at initialization.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds every tunable the browsing core consumes.
type Settings struct {
	// MaxPages caps the number of concurrently open pages
	MaxPages int `yaml:"max_pages"`

	// HistoryLimit bounds the browsing history; oldest entries are evicted
	HistoryLimit int `yaml:"history_limit"`

	// Latency budgets for the pipeline stages
	NavigationTimeout Duration `yaml:"navigation_timeout"`
	InsightTimeout    Duration `yaml:"insight_timeout"`
	SuggestionTimeout Duration `yaml:"suggestion_timeout"`

	// SuggestionTTL is how long cached suggestions stay fresh
	SuggestionTTL Duration `yaml:"suggestion_ttl"`

	// SnapshotTTL is how long an extracted content snapshot may be reused
	SnapshotTTL Duration `yaml:"snapshot_ttl"`

	// IdleTimeout closes pages idle for longer than this (0 disables)
	IdleTimeout Duration `yaml:"idle_timeout"`

	// Sentiment label thresholds: score >= Positive is positive,
	// score <= Negative is negative, anything between is neutral
	SentimentPositive float64 `yaml:"sentiment_positive"`
	SentimentNegative float64 `yaml:"sentiment_negative"`

	// KeywordLimit is the number of keywords returned per page
	KeywordLimit int `yaml:"keyword_limit"`

	// SummarySentences caps the extractive summary length
	SummarySentences int `yaml:"summary_sentences"`

	// Thumbnail target width in pixels (height preserves aspect ratio)
	ThumbnailWidth int `yaml:"thumbnail_width"`

	// Browser viewport
	ViewportWidth  int  `yaml:"viewport_width"`
	ViewportHeight int  `yaml:"viewport_height"`
	Headless       bool `yaml:"headless"`
}

// Default returns the settings used when no config file is present.
func Default() *Settings {
	return &Settings{
		MaxPages:          10,
		HistoryLimit:      200,
		NavigationTimeout: Duration(5 * time.Second),
		InsightTimeout:    Duration(3 * time.Second),
		SuggestionTimeout: Duration(2 * time.Second),
		SuggestionTTL:     Duration(30 * time.Second),
		SnapshotTTL:       Duration(2 * time.Second),
		IdleTimeout:       Duration(5 * time.Minute),
		SentimentPositive: 0.05,
		SentimentNegative: -0.05,
		KeywordLimit:      10,
		SummarySentences:  3,
		ThumbnailWidth:    160,
		ViewportWidth:     1280,
		ViewportHeight:    720,
		Headless:          true,
	}
}

// Load reads settings from a YAML file, filling unset fields from defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (*Settings, error) {
	settings := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := settings.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return settings, nil
}

func (s *Settings) validate() error {
	if s.MaxPages <= 0 {
		return fmt.Errorf("max_pages must be positive, got %d", s.MaxPages)
	}
	if s.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive, got %d", s.HistoryLimit)
	}
	if s.SentimentPositive < s.SentimentNegative {
		return fmt.Errorf("sentiment_positive (%v) must not be below sentiment_negative (%v)",
			s.SentimentPositive, s.SentimentNegative)
	}
	if s.KeywordLimit <= 0 {
		return fmt.Errorf("keyword_limit must be positive, got %d", s.KeywordLimit)
	}
	return nil
}

// Duration is a time.Duration that unmarshals from YAML strings like "5s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
