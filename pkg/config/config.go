/*
Package config manages the TOML configuration of the cineserve binaries.

A config file is created with defaults on first run. A file with a syntax
error is recovered section by section: sections that still parse are applied
over the defaults and the rest are ignored.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/cineserve/internal/utils"
)

// FileName is the config file name inside the config dir.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Suggest SuggestConfig `toml:"suggest"`
	Catalog CatalogConfig `toml:"catalog"`
	CLI     CliConfig     `toml:"cli"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxLimit    int `toml:"max_limit"`
	MaxQuery    int `toml:"max_query"`
	ReloadEvery int `toml:"reload_every"`
}

// SuggestConfig holds ranker options.
type SuggestConfig struct {
	DefaultLimit int `toml:"default_limit"`
	TimeoutMS    int `toml:"timeout_ms"`
}

// CatalogConfig says where titles come from.
type CatalogConfig struct {
	DataDir     string `toml:"data_dir"`
	UseEmbedded bool   `toml:"use_embedded"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	ShowCorrections bool `toml:"show_corrections"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:    50,
			MaxQuery:    100,
			ReloadEvery: 100,
		},
		Suggest: SuggestConfig{
			DefaultLimit: 10,
			TimeoutMS:    0,
		},
		Catalog: CatalogConfig{
			DataDir:     "data",
			UseEmbedded: true,
		},
		CLI: CliConfig{
			DefaultLimit:    10,
			ShowCorrections: true,
		},
	}
}

// Timeout is the per-request lookup timeout; zero means none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Suggest.TimeoutMS) * time.Millisecond
}

// normalize replaces out-of-range values with their defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Server.MaxLimit <= 0 {
		log.Warnf("server.max_limit must be positive, got %d", c.Server.MaxLimit)
		c.Server.MaxLimit = def.Server.MaxLimit
	}
	if c.Server.MaxQuery <= 0 {
		log.Warnf("server.max_query must be positive, got %d", c.Server.MaxQuery)
		c.Server.MaxQuery = def.Server.MaxQuery
	}
	if c.Server.ReloadEvery < 0 {
		c.Server.ReloadEvery = 0
	}
	if c.Suggest.DefaultLimit <= 0 {
		log.Warnf("suggest.default_limit must be positive, got %d", c.Suggest.DefaultLimit)
		c.Suggest.DefaultLimit = def.Suggest.DefaultLimit
	}
	c.Suggest.DefaultLimit = min(c.Suggest.DefaultLimit, c.Server.MaxLimit)
	if c.Suggest.TimeoutMS < 0 {
		c.Suggest.TimeoutMS = 0
	}
	if c.CLI.DefaultLimit <= 0 {
		c.CLI.DefaultLimit = def.CLI.DefaultLimit
	}
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.GetConfigPath(FileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/cineserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig decodes a TOML file over the defaults. A file that does not
// parse as a whole is recovered section by section.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	unknown, err := utils.LoadTOMLFile(configPath, config)
	if err != nil {
		if !utils.FileExists(configPath) {
			return nil, err
		}
		return tryPartialParse(configPath)
	}
	for _, key := range unknown {
		log.Warnf("Unknown config key %q in %s", key, configPath)
	}
	config.normalize()
	return config, nil
}

func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	sections, err := utils.ParseTOMLSections(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if data, ok := utils.ExtractSection(sections, "server"); ok {
		extractServerConfig(data, &config.Server)
	}
	if data, ok := utils.ExtractSection(sections, "suggest"); ok {
		extractSuggestConfig(data, &config.Suggest)
	}
	if data, ok := utils.ExtractSection(sections, "catalog"); ok {
		extractCatalogConfig(data, &config.Catalog)
	}
	if data, ok := utils.ExtractSection(sections, "cli"); ok {
		extractCliConfig(data, &config.CLI)
	}
	config.normalize()
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt(data, "max_query"); ok {
		server.MaxQuery = val
	}
	if val, ok := utils.ExtractInt(data, "reload_every"); ok {
		server.ReloadEvery = val
	}
}

func extractSuggestConfig(data map[string]any, suggest *SuggestConfig) {
	if val, ok := utils.ExtractInt(data, "default_limit"); ok {
		suggest.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt(data, "timeout_ms"); ok {
		suggest.TimeoutMS = val
	}
}

func extractCatalogConfig(data map[string]any, catalog *CatalogConfig) {
	if val, ok := utils.ExtractString(data, "data_dir"); ok {
		catalog.DataDir = val
	}
	if val, ok := utils.ExtractBool(data, "use_embedded"); ok {
		catalog.UseEmbedded = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "show_corrections"); ok {
		cli.ShowCorrections = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
