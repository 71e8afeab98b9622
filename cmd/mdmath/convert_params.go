package main

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	mdmath "github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/config"
)

// ErrInvalidTimeout is returned for unparseable or non-positive timeouts.
var ErrInvalidTimeout = errors.New("invalid timeout")

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	toc *mdmath.TOC
	log *zap.Logger
}

// logger returns the batch logger, or a no-op logger.
func (p *conversionParams) logger() *zap.Logger {
	if p == nil || p.log == nil {
		return zap.NewNop()
	}
	return p.log
}

// tocSettings returns the TOC settings, or nil when none were given.
func (p *conversionParams) tocSettings() *mdmath.TOC {
	if p == nil {
		return nil
	}
	return p.toc
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Style flags
	if flags.style.style != "" {
		cfg.CSS.Style = flags.style.style
	}
	if flags.style.highlight != "" {
		cfg.CSS.Highlight = flags.style.highlight
	}
	if flags.style.assetPath != "" {
		cfg.Assets.BasePath = flags.style.assetPath
	}

	// Math flags
	if flags.math.delimiters != "" {
		cfg.Math.Delimiters = flags.math.delimiters
	}
	if flags.math.mathJaxURL != "" {
		cfg.Math.MathJaxURL = flags.math.mathJaxURL
	}

	// TOC flags; any TOC setting turns it on
	if flags.toc.enabled {
		cfg.TOC.Enabled = true
	}
	if flags.toc.title != "" {
		cfg.TOC.Title = flags.toc.title
		cfg.TOC.Enabled = true
	}
	if flags.toc.minDepth > 0 {
		cfg.TOC.MinDepth = flags.toc.minDepth
		cfg.TOC.Enabled = true
	}
	if flags.toc.maxDepth > 0 {
		cfg.TOC.MaxDepth = flags.toc.maxDepth
		cfg.TOC.Enabled = true
	}

	// Disable flags
	if flags.style.noStyle {
		cfg.CSS.Style = ""
	}
	if flags.math.noMathJax {
		cfg.Math.MathJax = false
	}
	if flags.math.disabled {
		cfg.Math.Enabled = false
	}
}

// buildConverterOptions translates a validated config into converter options.
func buildConverterOptions(cfg *config.Config, timeout time.Duration) []mdmath.Option {
	var opts []mdmath.Option

	if timeout > 0 {
		opts = append(opts, mdmath.WithTimeout(timeout))
	}
	if cfg.CSS.Style != "" {
		opts = append(opts, mdmath.WithStyle(cfg.CSS.Style))
	}
	if cfg.CSS.Highlight != "" {
		opts = append(opts, mdmath.WithHighlightStyle(cfg.CSS.Highlight))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, mdmath.WithAssetPath(cfg.Assets.BasePath))
	}

	if !cfg.Math.Enabled {
		return append(opts, mdmath.WithoutMath())
	}
	opts = append(opts,
		mdmath.WithDelimiters(cfg.Math.DelimiterSet()),
		mdmath.WithInlinePriority(cfg.Math.InlinePriority),
		mdmath.WithBlockPriority(cfg.Math.BlockPriority),
	)
	if !cfg.Math.MathJax {
		opts = append(opts, mdmath.WithoutMathJax())
	} else if cfg.Math.MathJaxURL != "" {
		opts = append(opts, mdmath.WithMathJaxURL(cfg.Math.MathJaxURL))
	}

	return opts
}

// buildTOCData creates mdmath.TOC from config, nil when disabled.
func buildTOCData(cfg *config.Config) *mdmath.TOC {
	if !cfg.TOC.Enabled {
		return nil
	}

	return &mdmath.TOC{
		Title:    cfg.TOC.Title,
		MinDepth: cfg.TOC.MinDepth, // 0 = library default
		MaxDepth: cfg.TOC.MaxDepth,
	}
}

// resolveTimeout picks the per-file timeout.
// Priority: flag > env > 0 (library default).
func resolveTimeout(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envValue, nil
	}

	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (use e.g. 30s, 2m)", ErrInvalidTimeout, flagValue)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %v (must be positive)", ErrInvalidTimeout, d)
	}
	return d, nil
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// resolveWorkers picks the worker count. Priority: flag > env > 0 (auto).
func resolveWorkers(flagValue, envValue int) int {
	if flagValue != 0 {
		return flagValue
	}
	return envValue
}
