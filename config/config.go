package config

import (
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug            = "debug"
	ConfigPuzzle           = "puzzle"
	ConfigMetric           = "metric"
	ConfigThreads          = "threads"
	ConfigMemoryFraction   = "memory-fraction"
	ConfigLogDepth         = "log-depth"
	ConfigNatsURL          = "nats-url"
	ConfigNatsSubject      = "nats-subject"
	ConfigNatsAttempts     = "nats-attempts"
	ConfigDefinitionPath   = "definition-path"
	ConfigCPUProfile       = "cpu-profile"
	ConfigSelfCheckSamples = "self-check-samples"
)

type Config struct {
	*viper.Viper
	args []string
}

// Load reads settings from args, then TWISTY_-prefixed environment variables,
// then defaults. Arguments that are not flags are kept as the command.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()

	fs := pflag.NewFlagSet("twisty", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigPuzzle, "3x3-U-F2-R", "built-in puzzle to use")
	fs.String(ConfigMetric, "default", "named move list to expand with")
	fs.Int(ConfigThreads, runtime.NumCPU(), "threads for table building and search")
	fs.Float64(ConfigMemoryFraction, 0.5, "fraction of system memory the tables may use")
	fs.Int(ConfigLogDepth, -1, "log discovered states from this depth (-1: the puzzle's own)")
	fs.String(ConfigNatsURL, "", "publish deep discoveries to this NATS server")
	fs.String(ConfigNatsSubject, "twisty.states", "subject discoveries are published on")
	fs.Int(ConfigNatsAttempts, 5, "tries per NATS publish (at least one is made)")
	fs.String(ConfigDefinitionPath, "", "YAML puzzle definition to load instead of a built-in")
	fs.String(ConfigCPUProfile, "", "write a CPU profile here")
	fs.Int(ConfigSelfCheckSamples, 100000, "samples for the codec and table self-check")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c.SetEnvPrefix("twisty")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.args = fs.Args()
	return nil
}

// Args returns the non-flag arguments.
func (c *Config) Args() []string { return c.args }

// DefaultConfig returns the configuration with no arguments given.
func DefaultConfig() *Config {
	c := &Config{}
	if err := c.Load(nil); err != nil {
		panic(err)
	}
	return c
}

// SanitizedSettings returns all settings, with credentials in URLs hidden.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	if u, ok := settings[ConfigNatsURL].(string); ok && strings.Contains(u, "@") {
		settings[ConfigNatsURL] = "*****@" + u[strings.LastIndex(u, "@")+1:]
	}
	return settings
}
