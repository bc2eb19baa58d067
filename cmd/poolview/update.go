package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joshuapare/poolkit/cmd/poolview/logger"
	"github.com/joshuapare/poolkit/pool"
)

// clearStatusMsg clears the transient status message
type clearStatusMsg struct{}

// setStatus stores a transient status message and schedules its removal.
func (m *Model) setStatus(format string, args ...interface{}) tea.Cmd {
	m.statusMessage = fmt.Sprintf(format, args...)
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// If help is showing, handle help keys
		if m.showHelp {
			if key.Matches(msg, m.keys.Esc) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
				m.showHelp = false
				return m, nil
			}
			// Ignore other keys when help is showing
			return m, nil
		}

		// Handle the allocation size prompt
		if m.inputMode == AllocMode {
			return m.handleAllocInput(msg)
		}

		// Global keys
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}

		if key.Matches(msg, m.keys.Help) {
			m.showHelp = true
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.clampScroll()
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.segments)-1 {
				m.cursor++
				m.clampScroll()
			}
			return m, nil

		case key.Matches(msg, m.keys.PageUp):
			m.cursor -= m.listHeight()
			if m.cursor < 0 {
				m.cursor = 0
			}
			m.clampScroll()
			return m, nil

		case key.Matches(msg, m.keys.PageDown):
			m.cursor += m.listHeight()
			if m.cursor > len(m.segments)-1 {
				m.cursor = len(m.segments) - 1
			}
			if m.cursor < 0 {
				m.cursor = 0
			}
			m.clampScroll()
			return m, nil

		case key.Matches(msg, m.keys.Home):
			m.cursor = 0
			m.clampScroll()
			return m, nil

		case key.Matches(msg, m.keys.End):
			if len(m.segments) > 0 {
				m.cursor = len(m.segments) - 1
			}
			m.clampScroll()
			return m, nil

		case key.Matches(msg, m.keys.Alloc):
			m.inputMode = AllocMode
			m.inputBuffer = ""
			return m, nil

		case key.Matches(msg, m.keys.Free):
			return m.freeSelected()

		case key.Matches(msg, m.keys.Sync):
			if err := m.pool.Flush(context.Background()); err != nil {
				logger.Error("flush failed", "error", err)
				return m, m.setStatus("flush failed: %v", err)
			}
			return m, m.setStatus("flushed to disk")

		case key.Matches(msg, m.keys.Refresh):
			if err := m.refresh(); err != nil {
				m.err = err
				return m, nil
			}
			return m, m.setStatus("refreshed")
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, nil

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil
	}

	return m, nil
}

// handleAllocInput collects digits for the allocation size prompt.
func (m Model) handleAllocInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Esc):
		m.inputMode = NormalMode
		m.inputBuffer = ""
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		m.inputMode = NormalMode
		if m.inputBuffer == "" {
			return m, nil
		}
		size, err := strconv.Atoi(m.inputBuffer)
		m.inputBuffer = ""
		if err != nil {
			return m, m.setStatus("invalid size")
		}
		return m.allocate(size)

	case msg.Type == tea.KeyBackspace:
		if len(m.inputBuffer) > 0 {
			m.inputBuffer = m.inputBuffer[:len(m.inputBuffer)-1]
		}
		return m, nil

	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			if r >= '0' && r <= '9' {
				m.inputBuffer += string(r)
			}
		}
		return m, nil
	}

	return m, nil
}

// allocate requests size bytes from the pool and reports the outcome.
func (m Model) allocate(size int) (tea.Model, tea.Cmd) {
	ref, _, err := m.pool.Alloc(size)
	if err != nil {
		logger.Debug("alloc rejected", "size", size, "error", err)
		return m, m.setStatus("alloc(%d) failed: %v", size, err)
	}

	if err := m.refresh(); err != nil {
		m.err = err
		return m, nil
	}

	// Move the cursor to the new allocation.
	for i, seg := range m.segments {
		if seg.Kind == pool.SegmentUsed && seg.Ref == ref {
			m.cursor = i
			m.clampScroll()
			break
		}
	}

	logger.Info("allocated", "size", size, "ref", ref)
	return m, m.setStatus("alloc(%d) -> ref %d", size, ref)
}

// freeSelected frees the allocation under the cursor.
func (m Model) freeSelected() (tea.Model, tea.Cmd) {
	seg, ok := m.selectedSegment()
	if !ok {
		return m, m.setStatus("nothing selected")
	}
	if seg.Kind != pool.SegmentUsed {
		return m, m.setStatus("selected segment is a gap")
	}

	if err := m.pool.Free(seg.Ref); err != nil {
		logger.Error("free failed", "ref", seg.Ref, "error", err)
		return m, m.setStatus("free(ref %d) failed: %v", seg.Ref, err)
	}

	if err := m.refresh(); err != nil {
		m.err = err
		return m, nil
	}

	logger.Info("freed", "ref", seg.Ref)
	return m, m.setStatus("freed ref %d", seg.Ref)
}
