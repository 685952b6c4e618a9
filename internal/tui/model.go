package tui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"facoder/internal/model"
	"facoder/internal/session"
)

type mode int

const (
	modeName mode = iota
	modeCoding
	modeNotes
	modeJump
	modeGuide
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	quoteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	unselectedSty = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	codedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7AC27A"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7AC27A"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

var categoryHints = map[model.Category]string{
	model.CategoryStrong:   "credit markets significantly amplify economic shocks",
	model.CategoryModerate: "qualified or partial amplification",
	model.CategoryWeak:     "little or no amplifying effect",
	model.CategoryNone:     "no financial accelerator belief expressed",
}

// Model implements the Bubble Tea labeling UI. It drives the session
// state machine and never mutates coding records directly.
type Model struct {
	sess      *session.Session
	exportDir string

	width  int
	height int

	mode       mode
	selected   int
	nameInput  textinput.Model
	notesInput textinput.Model
	jumpInput  textinput.Model
	guide      viewport.Model
	guideReady bool

	statusMsg string
	errMsg    string

	// now is swappable for tests.
	now func() time.Time
}

// NewModel constructs a labeling UI over a prepared session. A session in
// AwaitingCoderName shows the name prompt (prefilled with coderPrefill);
// a resumed Active session starts coding immediately.
func NewModel(sess *session.Session, exportDir, coderPrefill string) *Model {
	nameInput := textinput.New()
	nameInput.Placeholder = "Enter your name"
	nameInput.CharLimit = 64
	nameInput.SetValue(coderPrefill)

	notesInput := textinput.New()
	notesInput.Placeholder = "Optional notes"
	notesInput.CharLimit = 500

	jumpInput := textinput.New()
	jumpInput.Placeholder = "Argument number"
	jumpInput.CharLimit = 6

	m := &Model{
		sess:       sess,
		exportDir:  exportDir,
		nameInput:  nameInput,
		notesInput: notesInput,
		jumpInput:  jumpInput,
		now:        time.Now,
	}
	if sess.State() == session.StateActive {
		m.mode = modeCoding
		m.syncFromCurrent()
	} else {
		m.mode = modeName
		m.nameInput.Focus()
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeGuide()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeName:
			return m.updateName(msg)
		case modeNotes:
			return m.updateNotes(msg)
		case modeJump:
			return m.updateJump(msg)
		case modeGuide:
			return m.updateGuide(msg)
		default:
			return m.updateCoding(msg)
		}
	default:
		return m, nil
	}
}

func (m *Model) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		if err := m.sess.SetCoderName(m.nameInput.Value()); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.nameInput.Blur()
		m.mode = modeCoding
		m.syncFromCurrent()
		return m, nil
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *Model) updateCoding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	_, atRecord := m.sess.Current()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "e":
		m.export()
		return m, nil
	case "g":
		m.jumpInput.SetValue("")
		m.jumpInput.Focus()
		m.mode = modeJump
		m.errMsg = ""
		return m, nil
	case "?":
		m.openGuide()
		return m, nil
	case "p", "left":
		if err := m.sess.GoBack(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.statusMsg = ""
		m.syncFromCurrent()
		return m, nil
	}

	if !atRecord {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(model.Categories)-1 {
			m.selected++
		}
	case "1", "2", "3", "4":
		m.selected = int(msg.String()[0] - '1')
	case "n":
		m.notesInput.Focus()
		m.mode = modeNotes
	case "enter":
		m.classify()
	}
	return m, nil
}

func (m *Model) updateNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.notesInput.Blur()
		m.mode = modeCoding
		return m, nil
	default:
		var cmd tea.Cmd
		m.notesInput, cmd = m.notesInput.Update(msg)
		return m, cmd
	}
}

func (m *Model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.jumpInput.Blur()
		m.mode = modeCoding
		return m, nil
	case tea.KeyEnter:
		target, err := strconv.Atoi(strings.TrimSpace(m.jumpInput.Value()))
		if err != nil {
			m.errMsg = "jump target must be a number"
			return m, nil
		}
		if err := m.sess.JumpTo(target - 1); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.statusMsg = ""
		m.jumpInput.Blur()
		m.mode = modeCoding
		m.syncFromCurrent()
		return m, nil
	default:
		var cmd tea.Cmd
		m.jumpInput, cmd = m.jumpInput.Update(msg)
		return m, cmd
	}
}

func (m *Model) updateGuide(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "esc", "q":
		m.mode = modeCoding
		return m, nil
	default:
		var cmd tea.Cmd
		m.guide, cmd = m.guide.Update(msg)
		return m, cmd
	}
}

func (m *Model) classify() {
	if err := m.sess.Classify(model.Categories[m.selected], m.notesInput.Value()); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	coded, total := m.sess.Progress()
	m.statusMsg = fmt.Sprintf("Saved (%d/%d coded)", coded, total)
	m.syncFromCurrent()
}

// syncFromCurrent preloads the selection and notes from the record under
// the cursor, so re-visited records show their prior coding.
func (m *Model) syncFromCurrent() {
	rec, ok := m.sess.Current()
	if !ok {
		return
	}
	m.selected = len(model.Categories) - 1 // default to none
	if rec.Classification != nil {
		for i, category := range model.Categories {
			if category == *rec.Classification {
				m.selected = i
				break
			}
		}
	}
	m.notesInput.SetValue(rec.Notes)
}

func (m *Model) export() {
	name := strings.ToLower(strings.ReplaceAll(m.sess.CoderName(), " ", "_"))
	filename := fmt.Sprintf("coded_%s_financial_accelerator_%s.csv", name, m.now().Format("20060102_150405"))
	path := filepath.Join(m.exportDir, filename)
	if err := session.WriteExportFile(path, m.sess.Snapshot()); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.statusMsg = fmt.Sprintf("Exported to %s", path)
}

func (m *Model) openGuide() {
	m.resizeGuide()
	m.mode = modeGuide
}

func (m *Model) resizeGuide() {
	width := m.contentWidth()
	height := m.height - 2
	if height < 1 {
		height = 1
	}
	if !m.guideReady {
		m.guide = viewport.New(width, height)
		m.guideReady = true
	} else {
		m.guide.Width = width
		m.guide.Height = height
	}
	m.guide.SetContent(wrapText(guideText, width))
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 76
	}
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	return width
}

// View implements tea.Model.
func (m *Model) View() string {
	switch m.mode {
	case modeName:
		return m.viewName()
	case modeGuide:
		return m.viewGuide()
	default:
		if _, ok := m.sess.Current(); !ok {
			return m.viewDone()
		}
		return m.viewCoding()
	}
}

func (m *Model) viewName() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Financial Accelerator Classification"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Your name (applied to every record in this session):"))
	b.WriteString("\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render("enter confirm · ctrl+c quit"))
	return b.String()
}

func (m *Model) viewCoding() string {
	rec, _ := m.sess.Current()
	coded, total := m.sess.Progress()
	width := m.contentWidth()

	var b strings.Builder
	header := fmt.Sprintf("Argument %s (%d/%d)", rec.CodingID, m.sess.Cursor()+1, total)
	b.WriteString(titleStyle.Render(header))
	if rec.Coded() {
		b.WriteString("  ")
		b.WriteString(codedStyle.Render(fmt.Sprintf("already coded: %s", rec.Classification)))
	}
	b.WriteString("\n\n")
	b.WriteString(quoteStyle.Width(width).Render(wrapText(rec.Quotation, width-4)))
	b.WriteString("\n\n")

	for i, category := range model.Categories {
		marker := "  "
		style := unselectedSty
		if i == m.selected {
			marker = "▸ "
			style = selectedStyle
		}
		line := fmt.Sprintf("%s%d. %-8s %s", marker, i+1, strings.ToUpper(category.String()), categoryHints[category])
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.mode == modeNotes {
		b.WriteString(labelStyle.Render("Notes: "))
		b.WriteString(m.notesInput.View())
	} else if m.mode == modeJump {
		b.WriteString(labelStyle.Render("Jump to argument: "))
		b.WriteString(m.jumpInput.View())
	} else {
		notes := m.notesInput.Value()
		if notes == "" {
			notes = "(none)"
		}
		b.WriteString(labelStyle.Render("Notes: " + notes))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderFooter(coded, total))
	return b.String()
}

func (m *Model) viewDone() string {
	coded, total := m.sess.Progress()
	var b strings.Builder
	b.WriteString(titleStyle.Render("All arguments reviewed"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Coded %d of %d records.\n", coded, total))
	if coded < total {
		b.WriteString("Some records are still uncoded; jump back with g to finish them.\n")
	}
	b.WriteString("\n")
	if m.mode == modeJump {
		b.WriteString(labelStyle.Render("Jump to argument: "))
		b.WriteString(m.jumpInput.View())
		b.WriteString("\n\n")
	}
	b.WriteString(m.renderFooter(coded, total))
	return b.String()
}

func (m *Model) viewGuide() string {
	var b strings.Builder
	b.WriteString(m.guide.View())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("↑/↓ scroll · ? close"))
	return b.String()
}

func (m *Model) renderFooter(coded, total int) string {
	segments := []string{fmt.Sprintf("Coded %d/%d", coded, total)}
	switch m.mode {
	case modeNotes:
		segments = append(segments, "enter/esc done")
	case modeJump:
		segments = append(segments, "enter go · esc cancel")
	default:
		segments = append(segments, "enter save · n notes · p prev · g jump · e export · ? guide · q quit")
	}
	footer := footerStyle.Render(strings.Join(segments, "  ·  "))
	if m.errMsg != "" {
		footer += "\n" + errorStyle.Render(m.errMsg)
	} else if m.statusMsg != "" {
		footer += "\n" + statusStyle.Render(m.statusMsg)
	}
	return footer
}
