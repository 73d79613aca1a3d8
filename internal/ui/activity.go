package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/trolleydev/trolley/internal/notify"
)

// renderActivity renders the recent notices view, newest first.
func (m Model) renderActivity() string {
	styles := m.theme.Styles()

	if len(m.recent) == 0 {
		return m.renderTitledBox("Activity",
			styles.MutedText.Render("Nothing has happened yet"), true)
	}

	var b strings.Builder
	for _, n := range m.recent {
		b.WriteString(styles.FaintText.Render(n.Time.Format("15:04:05")))
		b.WriteString("  ")
		b.WriteString(m.noticeStyle(n.Level, styles).Render(levelTag(n.Level)))
		b.WriteString("  ")
		b.WriteString(styles.Text.Render(truncate(n.Message, 80)))
		b.WriteString("\n")
	}

	return m.renderTitledBox("Activity", b.String(), true)
}

func (m Model) noticeStyle(level notify.Level, styles Styles) lipgloss.Style {
	switch level {
	case notify.LevelSuccess:
		return styles.SuccessText
	case notify.LevelWarning:
		return styles.WarningText
	case notify.LevelError:
		return styles.DangerText
	default:
		return styles.InfoText
	}
}

func levelTag(level notify.Level) string {
	switch level {
	case notify.LevelSuccess:
		return " ok "
	case notify.LevelWarning:
		return "warn"
	case notify.LevelError:
		return "fail"
	default:
		return "info"
	}
}
