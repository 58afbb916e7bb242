package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Options are host settings read from the environment. Command-line flags override them.
type Options struct {
	ConfigDir string `env:"ADVENTURER_CONFIG_DIR"`
	Stage     string `env:"ADVENTURER_STAGE" envDefault:"demo"`
	Backend   string `env:"ADVENTURER_BACKEND"`
	Debug     bool   `env:"ADVENTURER_DEBUG" envDefault:"false"`
	Record    string `env:"ADVENTURER_RECORD"`
}

// LoadOptions parses Options from the environment.
func LoadOptions() (Options, error) {
	var opts Options
	if err := env.Parse(&opts); err != nil {
		return Options{}, fmt.Errorf("parse env: %w", err)
	}
	return opts, nil
}
