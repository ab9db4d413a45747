// Package echo prints the tagprostats CLI's console output: a banner
// style for command headers and three message styles (success, error,
// info) for everything else. Every cmd/*.go command writes through this
// package rather than fmt.Println directly, so a palette change only
// ever touches this one file.
package echo

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#4B3BA8")).
			Padding(0, 1).
			Bold(true)

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#02BA84"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4B3BA8"))
)

func print(style lipgloss.Style, message string) {
	fmt.Println(style.Render(message))
}

func printf(style lipgloss.Style, format string, args ...interface{}) {
	fmt.Println(style.Render(fmt.Sprintf(format, args...)))
}

// Header prints message banner-style, padded and bolded against the
// header background color — used once per command to mark its start.
func Header(message string) { print(headerStyle, " "+message+" ") }

// Success prints message in the success color.
func Success(message string) { print(successStyle, message) }

// Successf formats and prints a message in the success color.
func Successf(format string, args ...interface{}) { printf(successStyle, format, args...) }

// Error prints message in the error color.
func Error(message string) { print(errorStyle, message) }

// Errorf formats and prints a message in the error color.
func Errorf(format string, args ...interface{}) { printf(errorStyle, format, args...) }

// Info prints message in the info color.
func Info(message string) { print(infoStyle, message) }

// Infof formats and prints a message in the info color.
func Infof(format string, args ...interface{}) { printf(infoStyle, format, args...) }

// HeaderStyle exposes the header style for longer, multi-line banners
// (cli.go's root command description).
func HeaderStyle() lipgloss.Style { return headerStyle }

// ErrorStyle exposes the error style for callers building a larger
// message around an error-colored fragment.
func ErrorStyle() lipgloss.Style { return errorStyle }