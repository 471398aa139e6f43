package pipeline

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the full tunable surface of one pipeline instance. Every knob is
// settable per invocation; there are no hidden defaults that differ between
// entry points.
type Config struct {
	// Fusion weights for the lexical, semantic, and centrality parts. The
	// decay weight is derived per query from BaseDelta.
	Alpha float64 `koanf:"alpha" validate:"gte=0"`
	Beta  float64 `koanf:"beta" validate:"gte=0"`
	Gamma float64 `koanf:"gamma" validate:"gte=0"`

	// KStages are the escalating retrieval budgets, strictly increasing.
	KStages []int `koanf:"k_stages" validate:"required,min=1,dive,gt=0"`

	// Time-decay parameters.
	BaseDelta float64 `koanf:"base_delta" validate:"gt=0"`
	MinTau    float64 `koanf:"min_tau" validate:"gt=0"`
	MaxTau    float64 `koanf:"max_tau" validate:"gt=0,gtefield=MinTau"`

	// Halting thresholds.
	MarginThresh float64 `koanf:"margin_thresh" validate:"gte=0"`
	AgreeThresh  float64 `koanf:"agree_thresh" validate:"gte=0"`
	AgreeK       int     `koanf:"agree_k" validate:"gte=2"`
}

// DefaultConfig returns the standard configuration: equal lexical/semantic
// weight, half-weight centrality, three escalation stages, and the strict
// halting preset.
func DefaultConfig() Config {
	return Config{
		Alpha:        1.0,
		Beta:         1.0,
		Gamma:        0.5,
		KStages:      []int{30, 60, 100},
		BaseDelta:    2.5,
		MinTau:       90.0,
		MaxTau:       730.0,
		MarginThresh: 0.15,
		AgreeThresh:  0.12,
		AgreeK:       5,
	}
}

var validate = validator.New()

// Validate checks the configuration. All violations wrap ErrInvalidConfig so
// callers can test with errors.Is.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for i := 1; i < len(c.KStages); i++ {
		if c.KStages[i] <= c.KStages[i-1] {
			return fmt.Errorf("%w: k_stages must be strictly increasing, got %v", ErrInvalidConfig, c.KStages)
		}
	}
	return nil
}

// LoadConfig reads a YAML config file over the defaults. Fields absent from
// the file keep their default values. The loaded config is validated.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return cfg, fmt.Errorf("loading config %s: %w", path, err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
