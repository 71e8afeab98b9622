package main

// Notes:
// - runDoctor inspects the real host (temp dir, container markers); tests
//   only assert on fields they control.

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-mdmath/internal/pipeline"
)

// ---------------------------------------------------------------------------
// TestRunDoctor - Diagnostic checks
// ---------------------------------------------------------------------------

func TestRunDoctor(t *testing.T) {
	t.Parallel()

	t.Run("defaults are ready", func(t *testing.T) {
		t.Parallel()

		result := runDoctor(&envConfig{}, nil)

		if len(result.Errors) != 0 {
			t.Errorf("Errors = %v, want none", result.Errors)
		}
		if !result.Math.Enabled || result.Math.Delimiters != "all" {
			t.Errorf("Math = %+v", result.Math)
		}
		if result.Math.MathJaxURL != pipeline.DefaultMathJaxURL {
			t.Errorf("MathJaxURL = %q, want default", result.Math.MathJaxURL)
		}
		if !result.System.TempWritable {
			t.Error("temp directory should be writable")
		}
		if result.Config.Loaded {
			t.Error("no config should be loaded")
		}
	})

	t.Run("unknown env vars warn", func(t *testing.T) {
		t.Parallel()

		result := runDoctor(&envConfig{}, []string{"MDMATH_DELIMS=dollar"})

		if result.Status != statusWarnings {
			t.Errorf("Status = %q, want %q", result.Status, statusWarnings)
		}
		if len(result.Env.Unknown) != 1 || result.Env.Unknown[0] != "MDMATH_DELIMS" {
			t.Errorf("Unknown = %v", result.Env.Unknown)
		}
	})

	t.Run("missing config is an error", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "missing.yaml")
		result := runDoctor(&envConfig{ConfigPath: missing}, nil)

		if result.Status != statusErrors {
			t.Errorf("Status = %q, want %q", result.Status, statusErrors)
		}
		if result.Config.Name != missing || result.Config.Loaded {
			t.Errorf("Config = %+v", result.Config)
		}
	})

	t.Run("config file is applied", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "work.yaml")
		if err := os.WriteFile(path, []byte("math:\n  delimiters: dollar\n  mathjax: false\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		result := runDoctor(&envConfig{ConfigPath: path}, nil)

		if !result.Config.Loaded {
			t.Fatalf("config not loaded: %v", result.Errors)
		}
		if result.Math.Delimiters != "dollar" || result.Math.MathJax {
			t.Errorf("Math = %+v", result.Math)
		}
	})

	t.Run("unknown style is an error", func(t *testing.T) {
		t.Parallel()

		result := runDoctor(&envConfig{Style: "no-such-style"}, nil)

		if result.Status != statusErrors {
			t.Errorf("Status = %q, want %q", result.Status, statusErrors)
		}
	})

	t.Run("plain http loader warns", func(t *testing.T) {
		t.Parallel()

		result := runDoctor(&envConfig{MathJaxURL: "http://cdn.example.com/MathJax.js"}, nil)

		if !containsSubstring(result.Warnings, "plain http") {
			t.Errorf("Warnings = %v", result.Warnings)
		}
	})

	t.Run("missing local loader warns", func(t *testing.T) {
		t.Parallel()

		local := filepath.Join(t.TempDir(), "MathJax.js")
		result := runDoctor(&envConfig{MathJaxURL: local}, nil)

		if !containsSubstring(result.Warnings, "not found") {
			t.Errorf("Warnings = %v", result.Warnings)
		}
	})
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// TestPrintDoctorResult - Human-readable output
// ---------------------------------------------------------------------------

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	result := &doctorResult{
		Status: statusWarnings,
		Math: mathInfo{
			Enabled:    true,
			Delimiters: "dollar",
			Available:  []string{"all", "dollar", "bracket"},
			MathJax:    true,
			MathJaxURL: "https://cdn.example.com/MathJax.js",
			Styles:     []string{"default"},
		},
		Config:   configInfo{Name: "work", Loaded: true},
		Env:      envInfo{OS: "linux", Arch: "amd64", GoMaxProcs: 4, CI: true},
		System:   systemInfo{TempWritable: true},
		Warnings: []string{"something odd"},
	}

	var buf bytes.Buffer
	printDoctorResult(&buf, result)
	out := buf.String()

	for _, want := range []string{
		"Delimiters: dollar (available: all, dollar, bracket)",
		"MathJax: https://cdn.example.com/MathJax.js",
		"Loaded work",
		"Platform: linux/amd64",
		"CI: detected",
		"[WARN] something odd",
		"Status: Ready with warnings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q\n%s", want, out)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - JSON output
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Parallel()

	env, stdout, _ := newTestEnv()
	code := runDoctorCmd([]string{"--json"}, env)
	if code != ExitSuccess && code != ExitGeneral {
		t.Fatalf("exit = %d", code)
	}

	var got doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout.String())
	}
	if got.Status == "" || len(got.Math.Available) == 0 {
		t.Errorf("decoded result = %+v", got)
	}
}
