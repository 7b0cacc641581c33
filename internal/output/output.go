// Package output renders discovery results for the terminal.
package output

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jparise/gh-discover/internal/discovery"
	"github.com/jparise/gh-discover/internal/timeparse"
	"github.com/mgutz/ansi"
)

// Output handles all output formatting with optional color and hyperlink support.
type Output struct {
	mu         sync.Mutex
	stdout     io.Writer
	stderr     io.Writer
	hyperlinks bool

	cyan   func(string) string
	green  func(string) string
	yellow func(string) string
	gray   func(string) string
	red    func(string) string
}

// New creates a new Output with optional color and hyperlink support.
func New(stdout, stderr io.Writer, colorize, hyperlinks bool) *Output {
	color := func(name string) func(string) string {
		if colorize {
			return ansi.ColorFunc(name)
		}
		return ansi.ColorFunc("")
	}

	return &Output{
		stdout:     stdout,
		stderr:     stderr,
		hyperlinks: hyperlinks,
		cyan:       color("cyan"),
		green:      color("green+b"),
		yellow:     color("yellow"),
		gray:       color("black+h"),
		red:        color("red+b"),
	}
}

func makeHyperlink(url, text string) string {
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// Repository writes one result as: owner/name ★stars language pushed date,
// followed by an indented description when there is one.
func (o *Output) Repository(item discovery.Item) {
	o.mu.Lock()
	defer o.mu.Unlock()

	owner, name, _ := strings.Cut(item.FullName, "/")
	formatted := fmt.Sprintf("%s/%s", o.cyan(owner), o.green(name))
	if o.hyperlinks && item.HTMLURL != "" {
		formatted = makeHyperlink(item.HTMLURL, formatted)
	}

	fields := []string{formatted, o.yellow(fmt.Sprintf("★%d", item.Stars))}
	if item.Language != nil {
		fields = append(fields, *item.Language)
	}
	if item.PushedAt != nil {
		fields = append(fields, o.gray("pushed "+timeparse.FormatDate(*item.PushedAt)))
	}
	fmt.Fprintln(o.stdout, strings.Join(fields, "  "))

	if item.Description != "" {
		fmt.Fprintf(o.stdout, "    %s\n", item.Description)
	}
}

// Page writes every item of page followed by a summary on stderr.
func (o *Output) Page(page discovery.Page, number int) {
	for _, item := range page.Items {
		o.Repository(item)
	}

	if page.Error != "" {
		o.Errorf("%s", page.Error)
		return
	}
	if len(page.Items) == 0 {
		o.Warningf("No repositories found")
		return
	}

	summary := fmt.Sprintf("Page %d: %d of %d repositories", number, len(page.Items), page.TotalCount)
	if page.Tier != "" {
		summary += fmt.Sprintf(" (%s)", page.Tier)
	}
	if page.HasMore {
		summary += fmt.Sprintf("; use --page %d for more", number+1)
	}
	o.Infof("%s", summary)
}

// Warningf writes a formatted warning message to stderr.
func (o *Output) Warningf(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stderr, o.yellow("Warning: ")+format+"\n", args...)
}

// Errorf writes a formatted error message to stderr.
func (o *Output) Errorf(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stderr, o.red("Error: ")+format+"\n", args...)
}

// Infof writes a formatted informational message to stderr.
func (o *Output) Infof(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stderr, format+"\n", args...)
}
