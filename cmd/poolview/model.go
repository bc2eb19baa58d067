package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joshuapare/poolkit/cmd/poolview/logger"
	"github.com/joshuapare/poolkit/pool"
)

// InputMode represents different input modes
type InputMode int

const (
	NormalMode InputMode = iota
	AllocMode
)

// Layout constants
const (
	HeaderHeight   = 2 // Title line plus file line
	UsageBarHeight = 2 // Proportional bar plus spacing
	StatsHeight    = 7 // Bordered stats panel
	FooterHeight   = 2 // Input prompt or hints plus status
)

// Model is the main application model
type Model struct {
	poolPath string
	pool     *pool.Pool
	keys     KeyMap

	// Layout state, rebuilt by refresh
	stats    pool.Stats
	segments []pool.Segment

	cursor int // selected segment index
	scroll int // first visible segment row

	width  int
	height int

	// Input modes
	inputMode   InputMode
	inputBuffer string // Buffer for the allocation size prompt

	// Help overlay
	showHelp bool

	// Status message for temporary feedback
	statusMessage string

	err error
}

// NewModel creates a new TUI model for an open pool
func NewModel(poolPath string, p *pool.Pool) Model {
	m := Model{
		poolPath: poolPath,
		pool:     p,
		keys:     DefaultKeyMap(),
	}
	if err := m.refresh(); err != nil {
		m.err = err
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads stats and the segment layout from the pool.
func (m *Model) refresh() error {
	m.stats = m.pool.Stats()

	segs, err := m.pool.Snapshot()
	if err != nil {
		return err
	}
	m.segments = segs

	if m.cursor >= len(m.segments) {
		m.cursor = len(m.segments) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampScroll()

	return nil
}

// listHeight returns how many segment rows fit on screen.
func (m Model) listHeight() int {
	h := m.height - HeaderHeight - UsageBarHeight - StatsHeight - FooterHeight
	if h < 3 {
		h = 3
	}
	return h
}

// clampScroll keeps the cursor inside the visible window.
func (m *Model) clampScroll() {
	visible := m.listHeight()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+visible {
		m.scroll = m.cursor - visible + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// selectedSegment returns the segment under the cursor, if any.
func (m Model) selectedSegment() (pool.Segment, bool) {
	if m.cursor < 0 || m.cursor >= len(m.segments) {
		return pool.Segment{}, false
	}
	return m.segments[m.cursor], true
}

// Close releases the pool, flushing pending changes for file-backed pools.
func (m Model) Close() error {
	logger.Debug("closing pool", "path", m.poolPath)
	return m.pool.Close()
}
