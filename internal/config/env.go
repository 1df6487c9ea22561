package config

import (
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/rusbywallet/rusby/internal/chain"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RUSBY"

// EnvNoColor disables colored output when set.
const EnvNoColor = "NO_COLOR"

type envOverrides struct {
	Home         string   `envconfig:"HOME"`
	Network      string   `envconfig:"NETWORK"`
	LogLevel     string   `envconfig:"LOG_LEVEL"`
	OutputFormat string   `envconfig:"OUTPUT_FORMAT"`
	Chains       []string `envconfig:"CHAINS"`
}

// ApplyEnvironment applies RUSBY_* overrides to cfg. Values that do not
// parse are ignored and the configured value stays.
func ApplyEnvironment(cfg *Config) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return
	}

	if env.Home != "" {
		cfg.Home = env.Home
	}
	if env.Network != "" {
		if n, err := chain.ParseNetwork(env.Network); err == nil {
			cfg.Network = string(n)
		}
	}
	if level := strings.ToLower(strings.TrimSpace(env.LogLevel)); isLogLevel(level) && level != "" {
		cfg.Logging.Level = level
	}
	switch format := strings.ToLower(strings.TrimSpace(env.OutputFormat)); format {
	case "auto", "text", "json":
		cfg.Output.Format = format
	}
	if len(env.Chains) > 0 {
		if _, err := chain.ParseList(strings.Join(env.Chains, ",")); err == nil {
			cfg.Chains = env.Chains
		}
	}

	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}
}
