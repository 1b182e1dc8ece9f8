package rag

import (
	"fmt"
	"strings"
	"time"
)

// assembler builds the character-budgeted context block handed to the
// model. Sections are emitted in fixed priority order; each line is only
// appended when it fits the remaining budget with a safety margin, and a
// line that does not fit ends its section rather than being shortened.
type assembler struct {
	b         strings.Builder
	remaining int
}

func newAssembler(maxChars int) *assembler {
	if maxChars <= 0 {
		maxChars = DefaultMaxContextChars
	}
	return &assembler{remaining: maxChars}
}

// sectionFits reports whether there is enough budget left to start a
// section at all.
func (a *assembler) sectionFits(minChars int) bool {
	return a.remaining > minChars
}

// line appends one line if it clears the safety margin, returning false
// when the section should stop growing.
func (a *assembler) line(s string) bool {
	if len(s) >= a.remaining-lineSafetyMargin {
		return false
	}
	a.b.WriteString(s)
	a.b.WriteByte('\n')
	a.remaining -= len(s) + 1
	return true
}

func (a *assembler) String() string {
	return strings.TrimSpace(a.b.String())
}

// assembleContext merges the four ranked lists into one text block within
// the maxChars budget, highest-priority source first:
// memories, then activity, clipboard, searches.
func assembleContext(
	memories []Ranked[MemoryItem],
	activity []Ranked[ActivityItem],
	clipboard []Ranked[ClipboardItem],
	searches []Ranked[SearchItem],
	maxChars int,
) string {
	a := newAssembler(maxChars)
	now := time.Now()

	if len(memories) > 0 && a.sectionFits(sectionMinChars) {
		a.line("## Remembered facts")
		for _, r := range memories {
			m := r.Item
			if !a.line(fmt.Sprintf("- %s: %s", m.Key, truncateText(m.Value, 150))) {
				break
			}
		}
	}

	if len(activity) > 0 && a.sectionFits(sectionMinChars) {
		a.line("## Recent screen activity")
		for _, r := range activity {
			if !a.line(formatActivityLine(r.Item, now)) {
				break
			}
		}
	}

	if len(clipboard) > 0 && a.sectionFits(sectionMinChars) {
		a.line("## Clipboard")
		for _, r := range clipboard {
			c := r.Item
			line := fmt.Sprintf("- [%s] %s", relativeTime(c.CreatedAt, now), truncateText(c.Content, 150))
			if c.Pinned {
				line += " (pinned)"
			}
			if !a.line(line) {
				break
			}
		}
	}

	if len(searches) > 0 && a.sectionFits(lastSectionMinChars) {
		a.line("## Recent searches")
		for _, r := range searches {
			s := r.Item
			line := fmt.Sprintf("- [%s] %q", relativeTime(s.CreatedAt, now), s.Query)
			if s.SourceApp != "" {
				line += " in " + s.SourceApp
			}
			if !a.line(line) {
				break
			}
		}
	}

	return a.String()
}

func formatActivityLine(item ActivityItem, now time.Time) string {
	line := fmt.Sprintf("- [%s] %s", relativeTime(item.CreatedAt, now), item.AppName)
	if item.ScreenTitle != "" {
		line += ": " + item.ScreenTitle
	}
	if item.VisibleText != "" {
		line += " | " + truncateText(item.VisibleText, 100)
	}
	return line
}

// truncateText shortens free text to at most max characters, marking the
// cut with an ellipsis. Newlines collapse to spaces so every item stays a
// single bullet line.
func truncateText(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// relativeTime renders t as a coarse human-readable age ("5m ago").
func relativeTime(t, now time.Time) string {
	age := now.Sub(t)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	case age < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
	return t.Format("2006-01-02")
}
