// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"strings"
)

// configDirName is the per-user configuration directory name.
const configDirName = "go-mdmath"

// ForTimeout returns a hint about increasing timeout for slow conversions.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and, when one was searched, the user config path.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), configDirName+"/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the available styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForDelimiters lists the accepted delimiter set names.
func ForDelimiters(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("use --delimiters " + strings.Join(available, "|"))
}

// ForMathPriority explains the accepted parser priority ranges.
func ForMathPriority(codeSpan, listItem int) string {
	return format(fmt.Sprintf("math.inlinePriority must be > %d, math.blockPriority must be < %d; 0 keeps the default", codeSpan, listItem))
}

// ForNoMarkdown returns a hint for an input directory without Markdown files.
func ForNoMarkdown() string {
	return format("only .md and .markdown files are converted")
}

// filepathSlash normalizes Windows separators for matching.
func filepathSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
