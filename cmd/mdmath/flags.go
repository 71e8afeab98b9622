package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// styleFlags holds stylesheet flags.
type styleFlags struct {
	style     string // name, file path or raw CSS
	assetPath string // directory with styles/ overrides
	highlight string // chroma style for code blocks
	noStyle   bool
}

// mathFlags holds math recognition flags.
type mathFlags struct {
	delimiters string
	mathJaxURL string
	noMathJax  bool
	disabled   bool
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	enabled  bool
	title    string
	minDepth int
	maxDepth int
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	workers int
	timeout string
	style   styleFlags
	math    mathFlags
	toc     tocFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timing and debug logs")
}

// addStyleFlags adds stylesheet flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name, file path or inline CSS")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory whose styles/ override built-in styles")
	fs.StringVar(&f.highlight, "highlight", "", "chroma style for code blocks (default: github)")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable CSS styling")
}

// addMathFlags adds math flags to a FlagSet.
func addMathFlags(fs *flag.FlagSet, f *mathFlags) {
	fs.StringVar(&f.delimiters, "delimiters", "", "math delimiters: all, dollar, bracket")
	fs.StringVar(&f.mathJaxURL, "mathjax-url", "", "MathJax loader URL or path")
	fs.BoolVar(&f.noMathJax, "no-mathjax", false, "keep math markup but do not load MathJax")
	fs.BoolVar(&f.disabled, "no-math", false, "disable math recognition")
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.BoolVar(&f.enabled, "toc", false, "insert a table of contents")
	fs.StringVar(&f.title, "toc-title", "", "table of contents heading")
	fs.IntVar(&f.minDepth, "toc-min-depth", 0, "min heading depth for TOC (1-6, default: 2)")
	fs.IntVar(&f.maxDepth, "toc-max-depth", 0, "max heading depth for TOC (1-6, default: 3)")
}

// newConvertFlagSet registers every convert flag on a fresh FlagSet.
// Shared by parsing and shell completion.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-file timeout (e.g., 10s, 1m)")

	addCommonFlags(fs, &f.common)
	addStyleFlags(fs, &f.style)
	addMathFlags(fs, &f.math)
	addTOCFlags(fs, &f.toc)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
// Usage errors are printed to stderr.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// configFlags holds flags for the config command.
type configFlags struct {
	config string
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string, stderr io.Writer) (*configFlags, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	f := &configFlags{}
	fs.StringVarP(&f.config, "config", "c", "", "show this config merged over defaults")
	fs.SetOutput(stderr)
	fs.Usage = func() { printConfigUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
