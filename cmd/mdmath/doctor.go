package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alnah/go-mdmath/internal/assets"
	"github.com/alnah/go-mdmath/internal/config"
	"github.com/alnah/go-mdmath/internal/fileutil"
	"github.com/alnah/go-mdmath/internal/pipeline"
	"github.com/alnah/go-mdmath/mathext"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"`
	Math     mathInfo   `json:"math"`
	Config   configInfo `json:"config"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// mathInfo describes what the converter will recognize and load.
type mathInfo struct {
	Enabled    bool     `json:"enabled"`
	Delimiters string   `json:"delimiters"`
	Available  []string `json:"available_delimiters"`
	MathJax    bool     `json:"mathjax"`
	MathJaxURL string   `json:"mathjax_url,omitempty"`
	Styles     []string `json:"styles"`
}

// configInfo holds config resolution results.
type configInfo struct {
	Name   string `json:"name,omitempty"`
	Loaded bool   `json:"loaded"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS         string   `json:"os"`
	Arch       string   `json:"arch"`
	GoMaxProcs int      `json:"gomaxprocs"`
	Container  bool     `json:"container"`
	CI         bool     `json:"ci"`
	Unknown    []string `json:"unknown_env_vars,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor(loadEnvConfig(), os.Environ())

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(envCfg *envConfig, environ []string) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			GoMaxProcs: runtime.GOMAXPROCS(0),
		},
	}

	cfg := checkConfig(result, envCfg)
	checkMath(result, cfg)
	checkEnvironment(result, environ)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkConfig loads MDMATH_CONFIG when set and returns the effective config.
func checkConfig(result *doctorResult, envCfg *envConfig) *config.Config {
	cfg := config.DefaultConfig()
	if envCfg.ConfigPath != "" {
		result.Config.Name = envCfg.ConfigPath
		loaded, err := config.LoadConfig(envCfg.ConfigPath)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("MDMATH_CONFIG: %v", err))
		} else {
			cfg = loaded
			result.Config.Loaded = true
		}
	}
	applyEnvConfig(envCfg, cfg)
	return cfg
}

// checkMath reports delimiters, styles and the MathJax source.
func checkMath(result *doctorResult, cfg *config.Config) {
	result.Math = mathInfo{
		Enabled:    cfg.Math.Enabled,
		Delimiters: cfg.Math.DelimiterSet().Name,
		Available:  mathext.DelimiterNames(),
		MathJax:    cfg.Math.Enabled && cfg.Math.MathJax,
		Styles:     assets.StyleNames(),
	}

	if cfg.CSS.Style != "" && !fileutil.IsFilePath(cfg.CSS.Style) && !fileutil.IsCSS(cfg.CSS.Style) {
		resolver, err := assets.NewAssetResolver(cfg.Assets.BasePath)
		if err == nil {
			_, err = resolver.LoadStyle(cfg.CSS.Style)
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("style %q: %v", cfg.CSS.Style, err))
		}
	}

	if !result.Math.MathJax {
		return
	}
	url := cfg.Math.MathJaxURL
	if url == "" {
		url = pipeline.DefaultMathJaxURL
	}
	result.Math.MathJaxURL = url

	if fileutil.IsURL(url) {
		if strings.HasPrefix(url, "http://") {
			result.Warnings = append(result.Warnings,
				"MathJax is loaded over plain http; browsers block it on https pages")
		}
		return
	}
	if !fileutil.FileExists(url) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("MathJax loader %s not found; pages will not typeset", url))
	}
}

// checkEnvironment detects container and CI environments and MDMATH_* typos.
func checkEnvironment(result *doctorResult, environ []string) {
	result.Env.Container = isContainer()

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	result.Env.Unknown = unknownEnvVars(environ)
	for _, name := range result.Env.Unknown {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("unknown environment variable %s (typo?)", name))
	}
}

// isContainer detects if running in a container environment.
// GOMAXPROCS is then adjusted from the cgroup quota.
func isContainer() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return os.Getenv("container") != "" || os.Getenv("KUBERNETES_SERVICE_HOST") != ""
}

// checkSystem verifies the temp directory accepts atomic writes.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "mdmath-doctor-test")
	if err := fileutil.WriteFileAtomic(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// printDoctorUsage prints help for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmath doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check math settings, styles, config and environment.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Machine-readable output")
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mdmath doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Math")
	if r.Math.Enabled {
		fmt.Fprintf(w, "  [OK] Delimiters: %s (available: %s)\n", r.Math.Delimiters, strings.Join(r.Math.Available, ", "))
	} else {
		fmt.Fprintln(w, "  [OK] Recognition: disabled")
	}
	if r.Math.MathJax {
		fmt.Fprintf(w, "  [OK] MathJax: %s\n", r.Math.MathJaxURL)
	}
	fmt.Fprintf(w, "  [OK] Styles: %s\n", strings.Join(r.Math.Styles, ", "))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config")
	switch {
	case r.Config.Name == "":
		fmt.Fprintln(w, "  [OK] Defaults (MDMATH_CONFIG not set)")
	case r.Config.Loaded:
		fmt.Fprintf(w, "  [OK] Loaded %s\n", r.Config.Name)
	default:
		fmt.Fprintf(w, "  [ERROR] Could not load %s\n", r.Config.Name)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintf(w, "  [OK] GOMAXPROCS: %d\n", r.Env.GoMaxProcs)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
