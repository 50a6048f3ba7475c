package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/buddy/internal/babybuddy"
)

const timelineRows = 12

// renderMain renders the header, the timers and timeline sections, and the
// footer.
func (m Model) renderMain() string {
	sections := []string{
		m.renderHeader(),
		m.renderTimers(),
		m.renderTimeline(),
	}
	body := strings.Join(sections, "\n\n")

	footer := m.renderFooter()
	if m.height > 0 {
		gap := m.height - lipgloss.Height(body) - lipgloss.Height(footer)
		if gap > 0 {
			body += strings.Repeat("\n", gap)
		}
	}
	return body + "\n" + footer
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	parts := []string{styles.Logo.Render("buddy")}

	if len(m.snapshot.Children) == 0 {
		parts = append(parts, styles.MutedText.Render("no children"))
	}
	for _, c := range m.snapshot.Children {
		name := strings.TrimSpace(c.FirstName + " " + c.LastName)
		if name == "" {
			name = c.Slug
		}
		if c.ID == m.snapshot.SelectedChild {
			parts = append(parts, styles.Selected.Padding(0, 1).Render(name))
		} else {
			parts = append(parts, styles.MutedText.Padding(0, 1).Render(name))
		}
	}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts, styles.DangerText.Bold(true).Render("OFFLINE"))
	case m.busy():
		parts = append(parts, m.spinner.View())
	}

	return styles.Header.Width(max(m.width, 1)).Render(strings.Join(parts, " "))
}

func (m Model) renderTimers() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Section.Render("Timers"))
	b.WriteString("\n")

	if len(m.snapshot.Timers) == 0 {
		b.WriteString(styles.FaintText.Render("  No timers. Press n to start one."))
		return b.String()
	}

	var clock babybuddy.ServerClock
	if m.client != nil {
		clock = m.client.Clock()
	}
	for i, t := range m.snapshot.Timers {
		elapsed := "--"
		if t.Start != nil && clock != nil {
			elapsed = formatElapsed(t.ComputeCurrentServerEndTime(clock).Sub(*t.Start))
		}
		marker, markerStyle := "■", styles.FaintText
		if t.Active {
			marker, markerStyle = "▶", styles.SuccessText
		}
		line := fmt.Sprintf("%s %-24s %12s", markerStyle.Render(marker), truncate(t.ReadableName(), 24), elapsed)
		if i == m.timerRow {
			line = styles.Selected.Render(line)
		} else {
			line = styles.Text.Render(line)
		}
		b.WriteString("  ")
		b.WriteString(line)
		if i < len(m.snapshot.Timers)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderTimeline() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Section.Render("Timeline"))
	b.WriteString("\n")

	entries := m.snapshot.Timeline()
	if len(entries) == 0 {
		b.WriteString(styles.FaintText.Render("  Nothing recorded yet."))
		return b.String()
	}
	if len(entries) > timelineRows {
		entries = entries[:timelineRows]
	}

	now := time.Now()
	for i, e := range entries {
		common := e.Common()
		when, ago := "--:--", ""
		if common.Start != nil {
			when = common.Start.Local().Format("15:04")
			ago = humanizeAgo(now.Sub(*common.Start))
		}
		b.WriteString(fmt.Sprintf("  %s  %s  %s  %s",
			styles.MutedText.Render(when),
			styles.KindStyle(common.Type).Render(fmt.Sprintf("%-10s", entryTitle(common.Type))),
			styles.Text.Render(truncate(entryDetail(e), 48)),
			styles.FaintText.Render(ago),
		))
		if i < len(entries)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	status := m.snapshot.Status
	statusStyle := styles.MutedText
	if m.snapshot.LastError != nil {
		status = m.snapshot.LastError.Error()
		statusStyle = styles.DangerText
	}
	line := statusStyle.Render(truncate(status, max(m.width-2, 10))) + "\n" + m.help.View(m.keys)
	return styles.Footer.Width(max(m.width, 1)).Render(line)
}

const logRows = 200

// renderLogs shows the tail of the log file in place of the timers and
// timeline.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	header := m.renderHeader()
	footer := m.renderFooter()

	rows := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer)-3, 1)
	entries := m.logEntries
	if len(entries) > rows {
		entries = entries[len(entries)-rows:]
	}

	var b strings.Builder
	b.WriteString(styles.Section.Render("Log"))
	b.WriteString(styles.FaintText.Render("  " + m.logPath))
	b.WriteString("\n")
	if len(entries) == 0 {
		b.WriteString(styles.FaintText.Render("  Log is empty."))
	}
	for i, e := range entries {
		when := "        "
		if !e.Time.IsZero() {
			when = e.Time.Local().Format("15:04:05")
		}
		b.WriteString(fmt.Sprintf("  %s %s %s",
			styles.MutedText.Render(when),
			m.levelStyle(e.Level).Render(fmt.Sprintf("%-5s", strings.ToUpper(e.Level))),
			styles.Text.Render(truncate(e.Summary(), max(m.width-18, 20))),
		))
		if i < len(entries)-1 {
			b.WriteString("\n")
		}
	}

	body := header + "\n\n" + b.String()
	if m.height > 0 {
		gap := m.height - lipgloss.Height(body) - lipgloss.Height(footer)
		if gap > 0 {
			body += strings.Repeat("\n", gap)
		}
	}
	return body + "\n" + footer
}

func (m Model) levelStyle(level string) lipgloss.Style {
	styles := m.theme.Styles()
	switch level {
	case "error", "dpanic", "panic", "fatal":
		return styles.DangerText.Bold(true)
	case "warn":
		return styles.WarningText.Bold(true)
	case "info":
		return styles.SuccessText
	}
	return styles.FaintText
}
