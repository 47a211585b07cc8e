// Package tui renders the live tuning display: the detected note, its
// frequency, a cents needle, and a spectral band meter.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tuner/internal/analysis"
	"tuner/internal/transport"
)

// How long to keep showing the last result before falling back to the idle
// screen.
const staleAfter = 750 * time.Millisecond

// needleWidth is the number of cells in the cents needle, including the
// center mark. Odd so the center is a single cell.
const needleWidth = 41

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	noteStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFDF5")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#25A065")).
			Padding(1, 4)

	inTuneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)

	offTuneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E06C75")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	meterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065"))
)

// keyMap defines the display key bindings.
type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c")),
}

// UpdateMsg delivers one tuning result to the display.
type UpdateMsg transport.Update

// tickMsg drives the staleness check.
type tickMsg time.Time

// Model is the Bubble Tea model for the tuning display.
type Model struct {
	latest      transport.Update
	hasResult   bool
	lastUpdated time.Time
	width       int
	height      int
}

// NewModel creates the display model.
func NewModel() Model {
	return Model{}
}

// Init starts the staleness ticker.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles key presses, tuning updates, and staleness ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case UpdateMsg:
		m.latest = transport.Update(msg)
		m.hasResult = true
		m.lastUpdated = time.Now()

	case tickMsg:
		if m.hasResult && time.Since(m.lastUpdated) > staleAfter {
			m.hasResult = false
		}
		return m, tick()
	}

	return m, nil
}

// View renders the display.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tuner"))
	b.WriteString("\n\n")

	if !m.hasResult || !m.latest.Detected {
		b.WriteString(infoStyle.Render("Listening..."))
		b.WriteString("\n")
	} else {
		note := m.latest.Note
		b.WriteString(noteStyle.Render(note.String()))
		b.WriteString("\n\n")

		centsStyle := offTuneStyle
		if note.Cents >= -5 && note.Cents <= 5 {
			centsStyle = inTuneStyle
		}
		b.WriteString(renderNeedle(note.Cents, needleWidth))
		b.WriteString("\n")
		b.WriteString(centsStyle.Render(fmt.Sprintf("%+.1f cents", note.Cents)))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("%.2f Hz (%s = %.2f Hz)",
			m.latest.Frequency, note, note.Frequency)))
		b.WriteString("\n")
	}

	if len(m.latest.Bands) > 0 {
		b.WriteString("\n")
		b.WriteString(meterStyle.Render(renderBands(m.latest.Bands)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(infoStyle.Render("Press q to quit"))
	return b.String()
}

// renderNeedle draws a flat-to-sharp scale of width cells with the needle at
// the position for cents, clamped to [-50, 50]. The center cell marks the
// in-tune position.
func renderNeedle(cents float64, width int) string {
	if cents > 50 {
		cents = 50
	} else if cents < -50 {
		cents = -50
	}

	center := width / 2
	pos := center + int(cents/50*float64(center))

	cells := make([]rune, width)
	for i := range cells {
		switch {
		case i == pos:
			cells[i] = '█'
		case i == center:
			cells[i] = '┼'
		default:
			cells[i] = '─'
		}
	}
	return "♭ " + string(cells) + " ♯"
}

// renderBands draws one bar per spectral band, eight steps each.
func renderBands(levels []float64) string {
	blocks := []rune(" ▁▂▃▄▅▆▇█")
	var b strings.Builder
	for i, level := range levels {
		if level < 0 {
			level = 0
		} else if level > 1 {
			level = 1
		}
		idx := int(level * float64(len(blocks)-1))
		b.WriteRune(blocks[idx])
		if i < len(levels)-1 {
			b.WriteRune(' ')
		}
	}
	names := strings.Join(analysis.BandNames, " ")
	return b.String() + "\n" + infoStyle.Render(names)
}
