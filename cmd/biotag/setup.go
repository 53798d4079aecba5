package main

import (
	"context"
	"fmt"

	"github.com/cognicore/biotag/internal/logging"
	"github.com/cognicore/biotag/pkg/biotag/config"
	"github.com/cognicore/biotag/pkg/biotag/modules"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
	"github.com/cognicore/biotag/pkg/biotag/resources"
	"github.com/cognicore/biotag/pkg/biotag/store"
	"github.com/cognicore/biotag/pkg/biotag/store/sqlite"
)

// app is a loaded configuration with its validated pipeline.
type app struct {
	cfg      *config.Config
	comp     *config.Components
	store    store.Store
	pipeline *pipeline.Pipeline
}

// setup loads the configuration and every component it names, and builds
// and validates the pipeline. Configuration errors surface here, before any
// document is read.
func setup(ctx context.Context, path string) (*app, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := initLogging(cfg); err != nil {
		return nil, err
	}

	loader := cfg.Loader()
	comp, err := loader.Load()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, comp: comp}
	if cfg.Store != "" {
		st, err := sqlite.OpenSQLite(ctx, cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.store = st
	}

	reg, err := modules.NewRegistry(modules.Deps{
		ParserLevel:  cfg.Level(),
		Dictionaries: comp.Dictionaries,
		ModelLevels:  comp.ModelLevels,
		Store:        a.store,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	mods, err := reg.Build(cfg.Pipeline)
	if err != nil {
		a.Close()
		return nil, err
	}
	if a.pipeline, err = pipeline.New(mods); err != nil {
		a.Close()
		return nil, err
	}
	logging.Debug("pipeline built", "config", path, "modules", len(mods),
		"dictionaries", len(comp.Dictionaries), "models", len(comp.Models))
	return a, nil
}

// Resources creates the resource context for one run.
func (a *app) Resources() (*resources.Context, error) {
	return resources.New(a.cfg.Resources(a.comp))
}

func (a *app) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func initLogging(cfg *config.Config) error {
	levelName, formatName := cfg.Log.Level, cfg.Log.Format
	if CLI.LogLevel != "" {
		levelName = CLI.LogLevel
	}
	if CLI.LogFormat != "" {
		formatName = CLI.LogFormat
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(formatName)
	if err != nil {
		return err
	}
	logging.InitLogger(level, format)
	return nil
}
