package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	mdmath "github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/config"
)

// poolFactory builds the converter pool for a batch. Replaced in tests.
type poolFactory func(size int, opts []mdmath.Option) (Pool, func())

// newConverterPool wraps mdmath.NewConverterPool.
func newConverterPool(size int, opts []mdmath.Option) (Pool, func()) {
	p := mdmath.NewConverterPool(size, opts...)
	return &poolAdapter{pool: p}, p.Close
}

// runConvertCmd parses convert flags and runs the conversion.
func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if flags.common.verbose {
		env.Logger = newLogger(env.Stderr, true)
	}
	return runConvert(ctx, positional, flags, env, newConverterPool)
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment, newPool poolFactory) error {
	log := env.Logger
	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr, os.Environ())
	}

	workers := resolveWorkers(flags.workers, envCfg.Workers)
	if err := validateWorkers(workers); err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}

	// Precedence: flags > env > file > defaults
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	poolSize := mdmath.ResolvePoolSize(workers)
	if poolSize > len(files) {
		poolSize = len(files)
	}
	log.Debug("starting batch",
		zap.String("input", inputPath),
		zap.Int("files", len(files)),
		zap.Int("workers", poolSize),
		zap.String("delimiters", cfg.Math.DelimiterSet().Name),
		zap.Bool("math", cfg.Math.Enabled))

	pool, closePool := newPool(poolSize, buildConverterOptions(cfg, timeout))
	defer closePool()

	// Surface option errors (bad style, asset path) once instead of per file.
	conv, err := pool.Acquire()
	if err != nil {
		return err
	}
	pool.Release(conv)

	results := convertBatch(ctx, pool, files, &conversionParams{
		toc: buildTOCData(cfg),
		log: log,
	})

	failed := printResults(results, flags.common.quiet, flags.common.verbose, env.Stdout, env.Stderr)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", ErrConversionFailed, failed, len(results))
	}

	return nil
}

// loadConfig loads the named config, flag first, then MDMATH_CONFIG.
// Without either, the defaults are used.
func loadConfig(flagName, envName string) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
