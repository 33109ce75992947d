// Package pairmapcfg assembles the runtime environment the CLI entry
// point needs: layered configuration, session state, a project path, and
// a structured logger, grounded on the teacher's log.New(os.Stdout, ...)
// wiring in cmd/relurpify/main.go's newServeCmd, generalized to
// go.uber.org/zap (already the executor package's logging dependency) so
// the whole binary shares one logging idiom.
package pairmapcfg

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pairmap-ai/pairmap/internal/config"
	"github.com/pairmap-ai/pairmap/internal/session"
)

// Env is the fully-resolved runtime environment for one CLI invocation.
type Env struct {
	ProjectPath  string
	Config       config.Config
	SessionState session.State
	Logger       *zap.Logger
}

// Build loads the layered config, the last session state, and constructs
// a logger, applying CLI flag overrides (modelOverride, configOverride)
// last so they win over every file layer.
func Build(projectPath, configOverridePath, modelOverride string, verbose bool) (*Env, error) {
	absProject, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(absProject)
	if err != nil {
		return nil, err
	}
	if configOverridePath != "" {
		if err := config.MergeFile(&cfg, configOverridePath); err != nil {
			return nil, err
		}
	}
	if modelOverride != "" {
		cfg.Model.Name = modelOverride
	}

	state, err := session.Load()
	if err != nil {
		return nil, err
	}

	logger, err := buildLogger(verbose)
	if err != nil {
		return nil, err
	}

	return &Env{ProjectPath: absProject, Config: cfg, SessionState: state, Logger: logger}, nil
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}
