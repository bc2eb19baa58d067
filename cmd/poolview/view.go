package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joshuapare/poolkit/pool"
)

// View renders the entire UI
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	// If help overlay is showing, render it
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderUsageBar(),
		m.renderStats(),
		m.renderSegments(),
		m.renderFooter(),
	)
}

// renderHeader renders the title line and the pool identity line
func (m Model) renderHeader() string {
	title := headerStyle.Render("Memory Pool Viewer")

	identity := m.poolPath
	if label := m.pool.Label(); label != "" {
		identity = fmt.Sprintf("%s (%s)", m.poolPath, label)
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		title,
		lipgloss.NewStyle().Render("  "),
		pathStyle.Render(identity),
	)
}

// renderUsageBar renders one proportional bar of the data region, used
// segments in the warning color and gaps in dim green.
func (m Model) renderUsageBar() string {
	barWidth := m.width - 4
	if barWidth < 10 {
		barWidth = 10
	}

	var dataLen int
	for _, seg := range m.segments {
		dataLen += int(seg.Length)
	}
	if dataLen == 0 {
		return ""
	}

	var bar strings.Builder
	covered := 0
	cum := 0
	for _, seg := range m.segments {
		cum += int(seg.Length)
		end := cum * barWidth / dataLen
		if end <= covered {
			continue
		}
		run := strings.Repeat(" ", end-covered)
		if seg.Kind == pool.SegmentUsed {
			bar.WriteString(usedBarStyle.Render(run))
		} else {
			bar.WriteString(gapBarStyle.Render(run))
		}
		covered = end
	}

	return "\n  " + bar.String()
}

// renderStats renders the counters panel
func (m Model) renderStats() string {
	var free, largest int
	for _, seg := range m.segments {
		if seg.Kind != pool.SegmentGap {
			continue
		}
		free += int(seg.Length)
		if int(seg.Length) > largest {
			largest = int(seg.Length)
		}
	}

	utilization := 0.0
	if m.stats.TotalSize > 0 {
		utilization = float64(m.stats.UsedMemory) / float64(m.stats.TotalSize) * 100
	}

	lines := []string{
		fmt.Sprintf("Total Size:   %d bytes", m.stats.TotalSize),
		fmt.Sprintf("Used Memory:  %d bytes (%.1f%%)", m.stats.UsedMemory, utilization),
		fmt.Sprintf("Free Memory:  %d bytes", free),
		fmt.Sprintf("Allocations:  %d", m.stats.NumAllocations),
		fmt.Sprintf("Largest Gap:  %d bytes", largest),
	}

	return paneStyle.Render(strings.Join(lines, "\n"))
}

// renderSegments renders the scrollable segment list with the cursor row
// highlighted
func (m Model) renderSegments() string {
	if len(m.segments) == 0 {
		return statusStyle.Render("  (no segments)")
	}

	visible := m.listHeight()
	endRow := m.scroll + visible
	if endRow > len(m.segments) {
		endRow = len(m.segments)
	}

	var rows []string
	for i := m.scroll; i < endRow; i++ {
		rows = append(rows, m.renderSegmentRow(i))
	}

	header := statusStyle.Render(fmt.Sprintf("  Segments %d-%d of %d", m.scroll+1, endRow, len(m.segments)))
	return header + "\n" + strings.Join(rows, "\n")
}

// renderSegmentRow formats one segment line
func (m Model) renderSegmentRow(i int) string {
	seg := m.segments[i]

	var row string
	if seg.Kind == pool.SegmentUsed {
		row = fmt.Sprintf("0x%08x  USED  %6d bytes  ref=%d", seg.Offset, seg.Length, seg.Ref)
	} else {
		row = fmt.Sprintf("0x%08x  GAP   %6d bytes", seg.Offset, seg.Length)
	}

	if i == m.cursor {
		return selectedStyle.Render("> " + row)
	}
	if seg.Kind == pool.SegmentUsed {
		return usedSegmentStyle.Render("  " + row)
	}
	return gapSegmentStyle.Render("  " + row)
}

// renderFooter renders the input prompt or the status/hint line
func (m Model) renderFooter() string {
	if m.inputMode == AllocMode {
		return promptStyle.Render("Allocate bytes: ") + m.inputBuffer + "█"
	}

	if m.statusMessage != "" {
		return statusMessageStyle.Render(m.statusMessage)
	}

	return statusStyle.Render("a:alloc  f:free  s:flush  r:refresh  ?:help  q:quit")
}

// renderHelpOverlay renders the full key reference
func (m Model) renderHelpOverlay() string {
	bindings := []struct {
		key  string
		desc string
	}{
		{m.keys.Up.Help().Key, m.keys.Up.Help().Desc},
		{m.keys.Down.Help().Key, m.keys.Down.Help().Desc},
		{m.keys.PageUp.Help().Key, m.keys.PageUp.Help().Desc},
		{m.keys.PageDown.Help().Key, m.keys.PageDown.Help().Desc},
		{m.keys.Home.Help().Key, m.keys.Home.Help().Desc},
		{m.keys.End.Help().Key, m.keys.End.Help().Desc},
		{m.keys.Alloc.Help().Key, m.keys.Alloc.Help().Desc},
		{m.keys.Free.Help().Key, m.keys.Free.Help().Desc},
		{m.keys.Sync.Help().Key, m.keys.Sync.Help().Desc},
		{m.keys.Refresh.Help().Key, m.keys.Refresh.Help().Desc},
		{m.keys.Help.Help().Key, m.keys.Help.Help().Desc},
		{m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc},
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Key Reference"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", bind.key, bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("Press ? or esc to close"))

	return helpStyle.Render(b.String())
}
