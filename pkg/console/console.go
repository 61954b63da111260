package console

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	isatty "github.com/mattn/go-isatty"
)

var (
	styleArrow    = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)  // cyan/blue
	styleJob      = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)  // bright white
	styleDesc     = lipgloss.NewStyle().Faint(true)                                  // dim
	styleWarnLbl  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true) // yellow
	styleWarnTxt  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))            // yellow
	styleUploaded = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)  // green
	colorEnabled  = true
)

// Init configures color output based on noColor flag and TTY detection
func Init(noColor bool) {
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	colorEnabled = tty && !noColor
}

func r(st lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return st.Render(s)
}

// JobHeader returns a colored header line for one job being processed.
func JobHeader(index, total int, slug, path string) string {
	arrow := r(styleArrow, "→")
	head := fmt.Sprintf("%s [%d/%d] %s", arrow, index, total, r(styleJob, slug))
	if path != "" {
		head += " " + r(styleDesc, "("+path+")")
	}
	return head
}

// Uploaded returns the confirmation line printed after a successful publish.
func Uploaded(destination string) string {
	return r(styleUploaded, "Uploaded to "+destination)
}

// Warnf returns a single-line colored warning string with a standard prefix.
func Warnf(format string, a ...interface{}) string {
	msg := fmt.Sprintf(format, a...)
	return r(styleWarnLbl, "Warning:") + " " + r(styleWarnTxt, msg)
}

// ShortError condenses a verbose multi-line error into its first useful line.
func ShortError(err error) string {
	if err == nil {
		return ""
	}
	for _, ln := range strings.Split(err.Error(), "\n") {
		if t := strings.TrimSpace(ln); t != "" {
			return t
		}
	}
	return err.Error()
}
