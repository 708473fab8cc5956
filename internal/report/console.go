package report

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	ColorReset  = "\033[0m"
	ColorBold   = "\033[1m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
)

// Level is the severity of a console message or table row.
type Level int

const (
	LevelNone Level = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) color() string {
	switch l {
	case LevelInfo:
		return ColorCyan
	case LevelSuccess:
		return ColorGreen
	case LevelWarning:
		return ColorYellow
	case LevelError:
		return ColorRed
	}
	return ""
}

// Console writes human readable, optionally colored, messages.
type Console struct {
	out   io.Writer
	color bool
}

// NewConsole returns a console writing to w, color is only used when w is a terminal.
func NewConsole(w io.Writer, noColor bool) *Console {
	return &Console{
		out:   w,
		color: !noColor && IsTerminal(w),
	}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (c *Console) Writer() io.Writer {
	return c.out
}

func (c *Console) ColorEnabled() bool {
	return c.color
}

func (c *Console) Paint(level Level, s string) string {
	if !c.color || level.color() == "" {
		return s
	}
	return level.color() + s + ColorReset
}

func (c *Console) Print(level Level, format string, args ...any) {
	fmt.Fprintln(c.out, c.Paint(level, fmt.Sprintf(format, args...)))
}

func (c *Console) Info(format string, args ...any) {
	c.Print(LevelInfo, format, args...)
}

func (c *Console) Success(format string, args ...any) {
	c.Print(LevelSuccess, format, args...)
}

func (c *Console) Warn(format string, args ...any) {
	c.Print(LevelWarning, format, args...)
}

func (c *Console) Error(format string, args ...any) {
	c.Print(LevelError, format, args...)
}

// Heading prints a bold line, used above tables.
func (c *Console) Heading(format string, args ...any) {
	s := fmt.Sprintf(format, args...)
	if c.color {
		s = ColorBold + ColorBlue + s + ColorReset
	}
	fmt.Fprintln(c.out, s)
}
