// Package config assembles a hierarchical configuration from built-in
// defaults, a global file at the user config dir, a project-local file,
// and environment variables, grounded on the teacher's
// cmd/internal/workspacecfg (JSON-on-disk read/write idiom, os.MkdirAll
// before write) generalized to YAML via gopkg.in/yaml.v3, the same
// library the teacher already uses for agent manifests.
package config

// ModelConfig describes the default LLM backend selection.
type ModelConfig struct {
	Provider     string  `yaml:"provider"`
	Name         string  `yaml:"name"`
	Temperature  float64 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`
	SystemPrompt string  `yaml:"system_prompt"`
}

// ContextConfig bounds the lazy context loader and repo map builder.
type ContextConfig struct {
	MaxFileSize      int64    `yaml:"max_file_size"`
	MaxFiles         int      `yaml:"max_files"`
	MaxContextTokens int      `yaml:"max_context_tokens"`
	IncludePatterns  []string `yaml:"include_patterns"`
	ExcludePatterns  []string `yaml:"exclude_patterns"`
}

// Config is the fully-assembled, layered configuration.
type Config struct {
	Model     ModelConfig   `yaml:"model"`
	Context   ContextConfig `yaml:"context"`
	ProxyURL  string        `yaml:"proxy_url"`
	MasterKey string        `yaml:"master_key"`

	DefaultOperationMode           string `yaml:"default_operation_mode"`
	AutoCommitOnAccept             bool   `yaml:"auto_commit_on_accept"`
	RequireDestructiveConfirmation bool   `yaml:"require_destructive_confirmation"`
}

// Defaults returns the built-in configuration, the innermost layer.
func Defaults() Config {
	return Config{
		Model: ModelConfig{
			Provider:     "ollama",
			Name:         "codellama",
			Temperature:  0.2,
			MaxTokens:    2048,
			SystemPrompt: "You are a careful pair-programming assistant.",
		},
		Context: ContextConfig{
			MaxFileSize:      1 << 20,
			MaxFiles:         1000,
			MaxContextTokens: 50000,
			IncludePatterns:  nil,
			ExcludePatterns:  nil,
		},
		DefaultOperationMode:           "normal",
		AutoCommitOnAccept:             false,
		RequireDestructiveConfirmation: true,
	}
}

const envPrefix = "PAIRMAP_"
