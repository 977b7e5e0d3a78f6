// Package config loads ncalc settings from a YAML or TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/ncalc/pkg/compiler/parser"
	"github.com/agenthands/ncalc/pkg/eval"
)

const (
	projectConfigYAML = "ncalc.yaml"
	projectConfigYML  = "ncalc.yml"
	projectConfigTOML = "ncalc.toml"
	homeConfigName    = "config.yaml"
	envPrefix         = "NCALC_"
)

const (
	FrontendNative = "native"
	FrontendPython = "python"
)

var ErrInvalid = errors.New("config: invalid configuration")

// Config is the on-disk shape of an ncalc configuration file.
type Config struct {
	Engine   string `yaml:"engine" toml:"engine"`
	Frontend string `yaml:"frontend" toml:"frontend"`
	MaxDepth int    `yaml:"max_depth" toml:"max_depth"`
	Strict   bool   `yaml:"strict" toml:"strict"`
	GasLimit int    `yaml:"gas_limit" toml:"gas_limit"`
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// path is the file the values were read from, empty for defaults.
	path string
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Engine:   string(eval.EngineTree),
		Frontend: FrontendNative,
		MaxDepth: parser.DefaultMaxDepth,
		GasLimit: eval.DefaultGasLimit,
		LogLevel: "info",
	}
}

// Path reports the file the configuration was loaded from.
func (c *Config) Path() string { return c.path }

// Load reads the configuration at explicitPath, or the first discovered file
// when explicitPath is empty, then applies NCALC_* environment overrides.
// Missing files are not an error: the defaults are used.
func Load(explicitPath string) (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}
	return LoadFrom(explicitPath, cwd, homeDir, os.LookupEnv)
}

// LoadFrom is a testable variant of Load.
func LoadFrom(explicitPath, cwd, homeDir string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	path, found, err := Discover(explicitPath, cwd, homeDir)
	if err != nil {
		return nil, err
	}
	if found {
		data, err := os.ReadFile(path) // #nosec G304 -- path from user CLI arg or fixed discovery list
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := Decode(data, path, cfg); err != nil {
			return nil, err
		}
		cfg.path = path
	}

	if err := cfg.applyEnv(lookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Discover resolves the config location with first-match semantics. An
// explicit path must exist.
func Discover(explicitPath, cwd, homeDir string) (string, bool, error) {
	if clean := strings.TrimSpace(explicitPath); clean != "" {
		clean = filepath.Clean(clean)
		info, err := os.Stat(clean)
		if err != nil {
			return "", false, fmt.Errorf("config file %s: %w", clean, err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config file %s is a directory", clean)
		}
		return clean, true, nil
	}

	candidates := []string{
		filepath.Join(cwd, projectConfigYAML),
		filepath.Join(cwd, projectConfigYML),
		filepath.Join(cwd, projectConfigTOML),
	}
	if homeDir != "" {
		candidates = append(candidates, filepath.Join(homeDir, ".ncalc", homeConfigName))
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %s: %w", candidate, err)
		}
	}
	return "", false, nil
}

// Decode unmarshals data into cfg. The format follows the file extension:
// .toml is TOML, anything else YAML.
func Decode(data []byte, path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("TOML parse error in %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("YAML parse error in %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) applyEnv(lookupEnv func(string) (string, bool)) error {
	if v, ok := lookupEnv(envPrefix + "ENGINE"); ok {
		c.Engine = v
	}
	if v, ok := lookupEnv(envPrefix + "FRONTEND"); ok {
		c.Frontend = v
	}
	if v, ok := lookupEnv(envPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookupEnv(envPrefix + "MAX_DEPTH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sMAX_DEPTH=%q", ErrInvalid, envPrefix, v)
		}
		c.MaxDepth = n
	}
	if v, ok := lookupEnv(envPrefix + "STRICT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sSTRICT=%q", ErrInvalid, envPrefix, v)
		}
		c.Strict = b
	}
	return nil
}

// Validate rejects unknown names and non-positive limits.
func (c *Config) Validate() error {
	if _, err := eval.ParseEngine(c.Engine); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch c.Frontend {
	case FrontendNative, FrontendPython:
	default:
		return fmt.Errorf("%w: unknown frontend %q", ErrInvalid, c.Frontend)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("%w: max_depth must be positive, got %d", ErrInvalid, c.MaxDepth)
	}
	if c.GasLimit <= 0 {
		return fmt.Errorf("%w: gas_limit must be positive, got %d", ErrInvalid, c.GasLimit)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel into a slog level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return level, nil
}

// Evaluator builds the evaluator these settings describe.
func (c *Config) Evaluator() eval.Evaluator {
	return eval.Evaluator{
		Parser:   parser.Parser{MaxDepth: c.MaxDepth, Strict: c.Strict},
		Engine:   eval.Engine(c.Engine),
		GasLimit: c.GasLimit,
	}
}
