package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/flowpad/flowpad/pkg/config"
	"github.com/flowpad/flowpad/pkg/editor"
	"github.com/flowpad/flowpad/pkg/graph"
	"github.com/flowpad/flowpad/pkg/mermaid"
	"github.com/flowpad/flowpad/pkg/pipeline"
	"github.com/flowpad/flowpad/pkg/render"
)

// previewDebounce is the idle time after a text change before a preview
// render is kicked off.
const previewDebounce = 400 * time.Millisecond

// moveStep is the canvas distance a node travels per keypress.
const moveStep = 25.0

// newEditCmd creates the edit command: a terminal editor with a text (code)
// mode and a graph (visual) mode, switchable with Tab.
func newEditCmd() *cobra.Command {
	var preview string

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a diagram interactively",
		Long: `Edit a flowchart in the terminal.

Tab toggles between code mode (edit the text) and visual mode (edit the
graph). Switching converts one representation from the other; each side
survives a round trip unchanged if nothing was touched in between.
Previews render in the background after edits settle and land in a
sidecar SVG file you can keep open in a viewer.

Keys (code):    type to edit · tab visual mode · ctrl+s save · ctrl+c quit
Keys (visual):  ↑/↓ select · a add · r rename · c connect · d delete edge
                H/J/K/L move node · +/- zoom · tab code mode`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return runEdit(cmd, path, preview)
		},
	}

	cmd.Flags().StringVar(&preview, "preview", "", "SVG preview file (default <file>.svg)")

	return cmd
}

func runEdit(cmd *cobra.Command, path, preview string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(configPathFromContext(ctx))
	if err != nil {
		return err
	}
	c, err := buildCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	var text string
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("read %s: %w", path, err)
		}
		text = string(data)
	}
	if preview == "" {
		preview = outputPath("", path, "svg")
	}

	m := newEditModel(editModelOptions{
		path:    path,
		preview: preview,
		text:    text,
		runner:  pipeline.NewRunner(c, logger),
	})

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(editModel); ok && fm.saveErr != nil {
		return fm.saveErr
	}
	return nil
}

// =============================================================================
// Messages
// =============================================================================

// debounceMsg fires after the debounce window. Stale tokens are ignored.
type debounceMsg struct {
	token int
}

// previewDoneMsg carries the result of a background preview render.
type previewDoneMsg struct {
	token  int
	stats  pipeline.Stats
	cached bool
	err    error
}

// =============================================================================
// Model
// =============================================================================

type editModelOptions struct {
	path    string
	preview string
	text    string
	runner  *pipeline.Runner
}

// editModel is the bubbletea model for the interactive editor. The
// embedded [editor.Editor] owns mode, text and graph; the model adds
// cursor state, the preview machinery and transient UI state.
type editModel struct {
	ed      *editor.Editor
	runner  *pipeline.Runner
	path    string
	preview string

	// code mode cursor
	lines []string
	row   int
	col   int

	// visual mode state
	sel         int    // index into graph nodes
	connectFrom string // pending edge source, "" when idle
	renaming    bool
	renameBuf   string

	// preview bookkeeping. token increases monotonically; results carrying
	// an older token are discarded.
	token       int
	rendering   bool
	lastStats   pipeline.Stats
	lastCached  bool
	previewErr  render.RenderError
	hasPreview  bool
	dirty       bool
	saveErr     error
	statusNote  string
	height      int
}

func newEditModel(opts editModelOptions) editModel {
	lines := strings.Split(opts.text, "\n")
	return editModel{
		ed:      editor.New(opts.text),
		runner:  opts.runner,
		path:    opts.path,
		preview: opts.preview,
		lines:   lines,
		row:     len(lines) - 1,
		col:     len(lines[len(lines)-1]),
		token:   1,
		height:  24,
	}
}

func (m editModel) Init() tea.Cmd {
	token := m.token
	return tea.Tick(previewDebounce, func(time.Time) tea.Msg {
		return debounceMsg{token: token}
	})
}

// =============================================================================
// Update
// =============================================================================

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case debounceMsg:
		if msg.token != m.token {
			return m, nil
		}
		m.rendering = true
		return m, m.renderPreview(msg.token)

	case previewDoneMsg:
		if msg.token != m.token {
			return m, nil
		}
		m.rendering = false
		if msg.err != nil {
			m.previewErr = render.ExtractError(msg.err.Error())
			return m, nil
		}
		m.previewErr = render.RenderError{}
		m.lastStats = msg.stats
		m.lastCached = msg.cached
		m.hasPreview = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m editModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys first.
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+s":
		m.save()
		return m, nil
	case "tab":
		return m.toggleMode()
	}

	if m.ed.Mode() == editor.ModeCode {
		return m.handleCodeKey(msg)
	}
	return m.handleVisualKey(msg)
}

// toggleMode flips between code and visual, converting the inactive
// representation from the active one.
func (m editModel) toggleMode() (tea.Model, tea.Cmd) {
	if m.ed.Mode() == editor.ModeCode {
		m.ed.SetText(strings.Join(m.lines, "\n"))
		m.ed.SwitchTo(editor.ModeVisual)
		m.sel = 0
		m.connectFrom = ""
		m.renaming = false
	} else {
		m.ed.SwitchTo(editor.ModeCode)
		m.lines = strings.Split(m.ed.Text(), "\n")
		m.row = 0
		m.col = 0
	}
	return m, m.schedulePreview()
}

func (m editModel) handleCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		s := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			s = " "
		}
		line := m.lines[m.row]
		m.lines[m.row] = line[:m.col] + s + line[m.col:]
		m.col += len(s)
		return m.textChanged()

	case tea.KeyEnter:
		line := m.lines[m.row]
		rest := line[m.col:]
		m.lines[m.row] = line[:m.col]
		m.lines = append(m.lines[:m.row+1], append([]string{rest}, m.lines[m.row+1:]...)...)
		m.row++
		m.col = 0
		return m.textChanged()

	case tea.KeyBackspace:
		if m.col > 0 {
			line := m.lines[m.row]
			m.lines[m.row] = line[:m.col-1] + line[m.col:]
			m.col--
			return m.textChanged()
		}
		if m.row > 0 {
			prev := m.lines[m.row-1]
			m.col = len(prev)
			m.lines[m.row-1] = prev + m.lines[m.row]
			m.lines = append(m.lines[:m.row], m.lines[m.row+1:]...)
			m.row--
			return m.textChanged()
		}

	case tea.KeyUp:
		if m.row > 0 {
			m.row--
			m.col = min(m.col, len(m.lines[m.row]))
		}
	case tea.KeyDown:
		if m.row < len(m.lines)-1 {
			m.row++
			m.col = min(m.col, len(m.lines[m.row]))
		}
	case tea.KeyLeft:
		if m.col > 0 {
			m.col--
		}
	case tea.KeyRight:
		if m.col < len(m.lines[m.row]) {
			m.col++
		}
	case tea.KeyHome:
		m.col = 0
	case tea.KeyEnd:
		m.col = len(m.lines[m.row])
	}
	return m, nil
}

func (m editModel) handleVisualKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := m.ed.Graph()

	if m.renaming {
		switch msg.Type {
		case tea.KeyEnter:
			if m.sel < len(g.Nodes) {
				m.ed.RelabelNode(g.Nodes[m.sel].ID, m.renameBuf)
			}
			m.renaming = false
			return m.graphChanged()
		case tea.KeyEsc:
			m.renaming = false
			return m, nil
		case tea.KeyBackspace:
			if len(m.renameBuf) > 0 {
				m.renameBuf = m.renameBuf[:len(m.renameBuf)-1]
			}
			return m, nil
		case tea.KeyRunes, tea.KeySpace:
			s := string(msg.Runes)
			if msg.Type == tea.KeySpace {
				s = " "
			}
			m.renameBuf += s
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.sel > 0 {
			m.sel--
		}
	case "down", "j":
		if m.sel < len(g.Nodes)-1 {
			m.sel++
		}

	case "a":
		id := m.freshNodeID(g)
		m.ed.AddNode(graph.Node{ID: id, Shape: graph.ShapeRectangle})
		m.sel = len(m.ed.Graph().Nodes) - 1
		return m.graphChanged()

	case "r":
		if m.sel < len(g.Nodes) {
			m.renaming = true
			m.renameBuf = g.Nodes[m.sel].Label
		}

	case "c":
		if m.sel >= len(g.Nodes) {
			break
		}
		id := g.Nodes[m.sel].ID
		if m.connectFrom == "" {
			m.connectFrom = id
			m.statusNote = "connect from " + id + ": select target, press c"
		} else if m.connectFrom != id {
			m.ed.Connect(m.connectFrom, id)
			m.connectFrom = ""
			m.statusNote = ""
			return m.graphChanged()
		}

	case "d":
		if m.sel < len(g.Nodes) {
			m.removeEdgesAt(g.Nodes[m.sel].ID)
			return m.graphChanged()
		}

	case "esc":
		m.connectFrom = ""
		m.statusNote = ""

	case "H", "J", "K", "L":
		if m.sel >= len(g.Nodes) {
			break
		}
		n := g.Nodes[m.sel]
		dx, dy := 0.0, 0.0
		switch msg.String() {
		case "H":
			dx = -moveStep
		case "L":
			dx = moveStep
		case "K":
			dy = -moveStep
		case "J":
			dy = moveStep
		}
		m.ed.MoveNode(n.ID, n.X+dx, n.Y+dy)
		return m.graphChanged()

	case "+", "=":
		m.ed.SetZoom(m.ed.Zoom() + 0.25)
	case "-":
		m.ed.SetZoom(m.ed.Zoom() - 0.25)

	case "q":
		return m, tea.Quit
	}
	return m, nil
}

// removeEdgesAt drops every edge touching the node id. The editor has no
// edge removal primitive, so the graph is rebuilt and swapped in whole.
func (m *editModel) removeEdgesAt(id string) {
	g := m.ed.Graph().Clone()
	kept := g.Edges[:0]
	for _, e := range g.Edges {
		if e.Source != id && e.Target != id {
			kept = append(kept, e)
		}
	}
	g.Edges = kept
	m.ed.ReplaceGraph(g)
}

// freshNodeID returns the first nN identifier not already taken.
func (m editModel) freshNodeID(g graph.Graph) string {
	for i := len(g.Nodes) + 1; ; i++ {
		id := fmt.Sprintf("n%d", i)
		if _, ok := g.Node(id); !ok {
			return id
		}
	}
}

// textChanged records an edit in code mode and restarts the debounce clock.
func (m editModel) textChanged() (tea.Model, tea.Cmd) {
	m.ed.SetText(strings.Join(m.lines, "\n"))
	m.dirty = true
	return m, m.schedulePreview()
}

// graphChanged records an edit in visual mode and restarts the debounce clock.
func (m editModel) graphChanged() (tea.Model, tea.Cmd) {
	m.dirty = true
	return m, m.schedulePreview()
}

// schedulePreview bumps the token and arms the debounce timer. Any render
// still in flight keeps running but its result will arrive stale.
func (m *editModel) schedulePreview() tea.Cmd {
	m.token++
	token := m.token
	return tea.Tick(previewDebounce, func(time.Time) tea.Msg {
		return debounceMsg{token: token}
	})
}

// renderPreview renders the current diagram to the preview file in the
// background and reports completeness tagged with the request token.
func (m editModel) renderPreview(token int) tea.Cmd {
	text := m.currentText()
	runner := m.runner
	preview := m.preview
	return func() tea.Msg {
		result, err := runner.Run(context.Background(), text, pipeline.Options{Format: pipeline.FormatSVG})
		if err != nil {
			return previewDoneMsg{token: token, err: err}
		}
		if err := os.WriteFile(preview, result.Artifact, 0o644); err != nil {
			return previewDoneMsg{token: token, err: err}
		}
		return previewDoneMsg{
			token:  token,
			stats:  result.Stats,
			cached: result.CacheInfo.RenderHit,
		}
	}
}

// currentText materializes the active representation as diagram text
// without mutating editor state.
func (m editModel) currentText() string {
	if m.ed.Mode() == editor.ModeCode {
		return strings.Join(m.lines, "\n")
	}
	return mermaid.SerializeGraph(m.ed.Graph())
}

// save writes the diagram text to the backing file.
func (m *editModel) save() {
	if m.path == "" {
		m.statusNote = "no file to save to"
		return
	}
	text := m.currentText()
	if err := os.WriteFile(m.path, []byte(text+"\n"), 0o644); err != nil {
		m.saveErr = err
		m.statusNote = "save failed: " + err.Error()
		return
	}
	m.saveErr = nil
	m.dirty = false
	m.statusNote = "saved " + m.path
}

// =============================================================================
// View
// =============================================================================

var (
	editCursorStyle   = lipgloss.NewStyle().Reverse(true)
	editModeStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editErrStyle      = lipgloss.NewStyle().Foreground(colorRed)
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
)

func (m editModel) View() string {
	var b strings.Builder

	mode := strings.ToUpper(m.ed.Mode().String())
	b.WriteString(editModeStyle.Render("flowpad · "+mode) + "\n\n")

	if m.ed.Mode() == editor.ModeCode {
		m.viewCode(&b)
	} else {
		m.viewVisual(&b)
	}

	b.WriteString("\n" + m.statusLine())
	return b.String()
}

func (m editModel) viewCode(b *strings.Builder) {
	for i, line := range m.lines {
		if i != m.row {
			b.WriteString(line + "\n")
			continue
		}
		// Render the cursor as a reversed cell.
		switch {
		case m.col >= len(line):
			b.WriteString(line + editCursorStyle.Render(" ") + "\n")
		default:
			b.WriteString(line[:m.col] + editCursorStyle.Render(string(line[m.col])) + line[m.col+1:] + "\n")
		}
	}
}

func (m editModel) viewVisual(b *strings.Builder) {
	g := m.ed.Graph()
	if len(g.Nodes) == 0 {
		b.WriteString(StyleDim.Render("empty diagram · press a to add a node") + "\n")
		return
	}

	for i, n := range g.Nodes {
		cursor := "  "
		style := listNormalStyle
		if i == m.sel {
			cursor = "▸ "
			style = listSelectedStyle
		}
		label := n.Label
		if m.renaming && i == m.sel {
			label = m.renameBuf + "▏"
		}
		line := fmt.Sprintf("%s%-12s %-13s %-20s (%.0f, %.0f)", cursor, n.ID, n.Shape, label, n.X, n.Y)
		if n.ID == m.connectFrom {
			line += "  " + StyleHighlight.Render(iconArrow+" ?")
		}
		b.WriteString(style.Render(line) + "\n")
	}

	if len(g.Edges) > 0 {
		b.WriteString("\n" + StyleDim.Render("edges") + "\n")
		for _, e := range g.Edges {
			line := fmt.Sprintf("  %s %s %s", e.Source, iconArrow, e.Target)
			if e.Label != "" {
				line += " " + StyleDim.Render("["+e.Label+"]")
			}
			b.WriteString(line + "\n")
		}
	}
}

func (m editModel) statusLine() string {
	var parts []string

	switch {
	case m.rendering:
		parts = append(parts, "rendering…")
	case m.previewErr.Message != "":
		msg := m.previewErr.Message
		if m.previewErr.Line > 0 {
			msg = fmt.Sprintf("%s (line %d)", msg, m.previewErr.Line)
		}
		parts = append(parts, editErrStyle.Render(iconError+" "+msg))
	case m.hasPreview:
		status := iconFresh
		if m.lastCached {
			status = iconCached
		}
		parts = append(parts, fmt.Sprintf("%d nodes · %d edges · %s %s",
			m.lastStats.NodeCount, m.lastStats.EdgeCount, status, iconArrow+" "+m.preview))
	}

	if m.ed.Mode() == editor.ModeVisual {
		parts = append(parts, fmt.Sprintf("zoom %.2gx", m.ed.Zoom()))
	}
	if m.dirty {
		parts = append(parts, "modified")
	}
	if m.statusNote != "" {
		parts = append(parts, m.statusNote)
	}
	parts = append(parts, "tab mode · ctrl+s save · ctrl+c quit")

	return StyleDim.Render(strings.Join(parts, "  ·  "))
}
