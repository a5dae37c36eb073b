// Package output provides terminal and file output utilities for the
// changelog CLI. It is kept free of other internal dependencies to avoid
// import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintSuccess prints a colored success message, green check plus cyan detail.
func PrintSuccess(out io.Writer, message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), cyan(message))
}

// PrintHeading prints a bold section heading.
func PrintHeading(out io.Writer, heading string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s\n", bold(heading))
}

// WriteLines joins document lines with newlines and writes them to w,
// ending with a trailing newline.
func WriteLines(w io.Writer, lines []string) error {
	if _, err := io.WriteString(w, strings.Join(lines, "\n")+"\n"); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// WriteFile writes document lines to path, creating or truncating the file.
func WriteFile(path string, lines []string) error {
	data := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
