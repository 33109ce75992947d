package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// GlobalConfigPath returns the user-wide config file path.
func GlobalConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pairmap", "config.yaml"), nil
}

// ProjectConfigPath returns the project-local config file path.
func ProjectConfigPath(projectPath string) string {
	return filepath.Join(projectPath, ".config", "config.yaml")
}

// Load assembles defaults < global file < project-local file < env vars.
// A missing file at any layer is not an error; unknown keys in any layer
// are ignored for forward-compatibility (yaml.v3 does this natively).
func Load(projectPath string) (Config, error) {
	cfg := Defaults()

	if global, err := GlobalConfigPath(); err == nil {
		if err := mergeFile(&cfg, global); err != nil {
			return cfg, err
		}
	}
	if projectPath != "" {
		if err := mergeFile(&cfg, ProjectConfigPath(projectPath)); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

// MergeFile unmarshals path's YAML content onto cfg, leaving cfg
// untouched if the file does not exist. Exported for callers layering in
// an extra file beyond the global/project-local pair, such as the CLI's
// --config flag.
func MergeFile(cfg *Config, path string) error {
	return mergeFile(cfg, path)
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnv overrides cfg fields from PAIRMAP_-prefixed environment
// variables. Unset variables leave the prior layer's value untouched.
func applyEnv(cfg *Config) {
	if v, ok := lookupEnv("MODEL_PROVIDER"); ok {
		cfg.Model.Provider = v
	}
	if v, ok := lookupEnv("MODEL_NAME"); ok {
		cfg.Model.Name = v
	}
	if v, ok := lookupEnvFloat("MODEL_TEMPERATURE"); ok {
		cfg.Model.Temperature = v
	}
	if v, ok := lookupEnvInt("MODEL_MAX_TOKENS"); ok {
		cfg.Model.MaxTokens = v
	}
	if v, ok := lookupEnv("MODEL_SYSTEM_PROMPT"); ok {
		cfg.Model.SystemPrompt = v
	}
	if v, ok := lookupEnvInt64("CONTEXT_MAX_FILE_SIZE"); ok {
		cfg.Context.MaxFileSize = v
	}
	if v, ok := lookupEnvInt("CONTEXT_MAX_FILES"); ok {
		cfg.Context.MaxFiles = v
	}
	if v, ok := lookupEnvInt("CONTEXT_MAX_CONTEXT_TOKENS"); ok {
		cfg.Context.MaxContextTokens = v
	}
	if v, ok := lookupEnv("PROXY_URL"); ok {
		cfg.ProxyURL = v
	}
	if v, ok := lookupEnv("MASTER_KEY"); ok {
		cfg.MasterKey = v
	}
	if v, ok := lookupEnv("DEFAULT_OPERATION_MODE"); ok {
		cfg.DefaultOperationMode = v
	}
	if v, ok := lookupEnvBool("AUTO_COMMIT_ON_ACCEPT"); ok {
		cfg.AutoCommitOnAccept = v
	}
	if v, ok := lookupEnvBool("REQUIRE_DESTRUCTIVE_CONFIRMATION"); ok {
		cfg.RequireDestructiveConfirmation = v
	}
}

func lookupEnv(key string) (string, bool) {
	return os.LookupEnv(envPrefix + key)
}

func lookupEnvBool(key string) (bool, bool) {
	v, ok := lookupEnv(key)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, false
	}
	return b, true
}

func lookupEnvInt(key string) (int, bool) {
	v, ok := lookupEnv(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

func lookupEnvInt64(key string) (int64, bool) {
	v, ok := lookupEnv(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func lookupEnvFloat(key string) (float64, bool) {
	v, ok := lookupEnv(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
