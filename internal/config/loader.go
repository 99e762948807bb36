package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadCoinrun loads CoinRun configuration.
// Search order: customPath -> ~/.coinrun/configs/coinrun.yaml -> ./configs/coinrun.yaml -> embedded default
func LoadCoinrun(customPath string) (CoinrunConfig, error) {
	cfg := DefaultCoinrunConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("coinrun.yaml"); userCfgPath != "" {
		if c, ok := tryLoad(userCfgPath); ok {
			return c, nil
		}
	}

	// Try local configs directory
	if c, ok := tryLoad(filepath.Join("configs", "coinrun.yaml")); ok {
		return c, nil
	}

	// Use embedded default YAML
	var embedded CoinrunConfig
	if err := yaml.Unmarshal(defaultCoinrunYAML, &embedded); err != nil {
		return DefaultCoinrunConfig(), nil // Fallback to hardcoded if embed fails
	}
	return embedded, nil
}

// tryLoad reads an optional config file layered over the defaults.
func tryLoad(path string) (CoinrunConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CoinrunConfig{}, false
	}
	cfg := DefaultCoinrunConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CoinrunConfig{}, false
	}
	return cfg, true
}

// SaveCoinrun writes cfg as YAML, creating parent directories.
func SaveCoinrun(path string, cfg CoinrunConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".coinrun", "configs", filename)
}

// UserConfigPath returns the per-user location of coinrun.yaml.
func UserConfigPath() string {
	return userConfigPath("coinrun.yaml")
}
