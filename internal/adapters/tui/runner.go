package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/mfontan/ironlog/internal/config"
	"github.com/mfontan/ironlog/internal/domain"
	"github.com/mfontan/ironlog/internal/ports"
)

// tickMsg is sent on every timer tick.
type tickMsg time.Time

// tickCmd creates a command that sends a tick message.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// feedbackField identifies the focused control on the feedback screen.
type feedbackField int

const (
	fbQuality feedbackField = iota
	fbDifficulty
	fbNotes
)

// Model represents the live session screen. It renders controller
// state and forwards intents; all run semantics live behind the
// controller.
type Model struct {
	controller ports.RunController
	theme      config.ThemeConfig
	progress   progress.Model
	width      int
	height     int

	cursor  int               // exercise index
	setSel  int               // set offset inside the exercise, used in edit views
	focus   domain.EntryField // weight or reps
	lastErr error

	// feedback screen
	inFeedback bool
	quality    int
	difficulty int
	fbFocus    feedbackField
	notes      textinput.Model
	submitErr  error

	done     bool // submitted or canceled
	detached bool // quit with the run kept resumable
}

// NewModel creates the session screen for a loaded run.
func NewModel(controller ports.RunController, theme *config.ThemeConfig) Model {
	ti := textinput.New()
	ti.Placeholder = "optional notes"
	ti.CharLimit = 200
	ti.Width = 40

	width := 60
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		width = w
	}

	return Model{
		controller: controller,
		theme:      resolveTheme(theme),
		progress:   progress.New(progress.WithDefaultGradient()),
		width:      width,
		focus:      domain.FieldWeight,
		quality:    3,
		difficulty: 3,
		notes:      ti,
	}
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.done {
			return m, tea.Quit
		}
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.inFeedback {
			return m.updateFeedback(msg)
		}
		return m.updateLive(msg)
	}

	if m.inFeedback && m.fbFocus == fbNotes {
		var cmd tea.Cmd
		m.notes, cmd = m.notes.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateLive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.controller.State()
	if state == nil {
		return m, tea.Quit
	}
	exerciseCount := len(m.controller.Template().Exercises)

	switch msg.String() {
	case "ctrl+c", "q":
		m.detached = true
		m.controller.Detach()
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.setSel = 0
		}
	case "down", "j":
		if m.cursor < exerciseCount-1 {
			m.cursor++
			m.setSel = 0
		}

	case "tab":
		if m.focus == domain.FieldWeight {
			m.focus = domain.FieldReps
		} else {
			m.focus = domain.FieldWeight
		}

	case "left", "h":
		if m.setSel > 0 {
			m.setSel--
		}
	case "right", "l":
		if m.setSel < m.visibleSetCount()-1 {
			m.setSel++
		}

	case "+", "=":
		if key, ok := m.targetKey(); ok {
			m.lastErr = m.controller.IncrementEntry(key, m.focus)
		}
	case "-", "_":
		if key, ok := m.targetKey(); ok {
			m.lastErr = m.controller.DecrementEntry(key, m.focus)
		}

	case "backspace":
		if key, ok := m.targetKey(); ok {
			value := m.fieldValue(key)
			if len(value) > 0 {
				m.lastErr = m.controller.ChangeEntry(key, m.focus, value[:len(value)-1])
			}
		}

	case "enter", " ":
		if key, ok := m.targetKey(); ok {
			m.lastErr = m.controller.CompleteSet(context.Background(), key)
			m.setSel = 0
		}

	case "e":
		m.controller.ToggleEditMode(m.cursor)
		m.setSel = 0
	case "p":
		m.controller.TogglePastSets(m.cursor)
		m.setSel = 0

	case "f":
		if err := m.controller.BeginFinish(); err == nil {
			m.inFeedback = true
			m.fbFocus = fbQuality
			m.notes.Blur()
		}

	case "c":
		m.lastErr = m.controller.Cancel(context.Background())
		m.done = true
		return m, tea.Quit

	default:
		// Raw numeric editing: digits and a decimal point append to
		// the focused field.
		s := msg.String()
		if len(s) == 1 && (s >= "0" && s <= "9" || s == ".") {
			if key, ok := m.targetKey(); ok {
				m.lastErr = m.controller.ChangeEntry(key, m.focus, m.fieldValue(key)+s)
			}
		}
	}
	return m, nil
}

func (m Model) updateFeedback(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.detached = true
		m.controller.Detach()
		return m, tea.Quit

	case "esc":
		if err := m.controller.CancelFinish(); err == nil {
			m.inFeedback = false
			m.submitErr = nil
		}
		return m, nil

	case "tab", "down":
		m.fbFocus = (m.fbFocus + 1) % 3
		m.syncNotesFocus()
		return m, nil
	case "shift+tab", "up":
		m.fbFocus = (m.fbFocus + 2) % 3
		m.syncNotesFocus()
		return m, nil

	case "left":
		switch m.fbFocus {
		case fbQuality:
			if m.quality > 1 {
				m.quality--
			}
		case fbDifficulty:
			if m.difficulty > 1 {
				m.difficulty--
			}
		}
		return m, nil
	case "right":
		switch m.fbFocus {
		case fbQuality:
			if m.quality < 5 {
				m.quality++
			}
		case fbDifficulty:
			if m.difficulty < 5 {
				m.difficulty++
			}
		}
		return m, nil

	case "enter":
		fb := domain.Feedback{
			Quality:    m.quality,
			Difficulty: m.difficulty,
			Notes:      strings.TrimSpace(m.notes.Value()),
		}
		if err := m.controller.Submit(context.Background(), fb); err != nil {
			m.submitErr = err
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	}

	if m.fbFocus == fbNotes {
		var cmd tea.Cmd
		m.notes, cmd = m.notes.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) syncNotesFocus() {
	if m.fbFocus == fbNotes {
		m.notes.Focus()
	} else {
		m.notes.Blur()
	}
}

// visibleSetCount reports how many sets of the cursor exercise the set
// selector can reach in the current view mode.
func (m Model) visibleSetCount() int {
	state := m.controller.State()
	if state == nil {
		return 0
	}
	if state.Editing[m.cursor] || state.PastVisible[m.cursor] {
		return domain.ProgressFor(state.Entries, m.cursor).Total
	}
	return 1
}

// targetKey resolves which entry the next edit applies to. Outside the
// edit views that is the exercise's next incomplete set; inside them
// the set selector picks any set.
func (m Model) targetKey() (domain.EntryKey, bool) {
	state := m.controller.State()
	if state == nil {
		return domain.EntryKey{}, false
	}

	if state.Editing[m.cursor] || state.PastVisible[m.cursor] {
		p := domain.ProgressFor(state.Entries, m.cursor)
		if m.setSel >= p.Total {
			return domain.EntryKey{}, false
		}
		return domain.EntryKey{Exercise: m.cursor, Set: m.setSel}, true
	}

	idx := domain.CurrentEntryIndex(state.Entries, m.cursor)
	if idx < 0 {
		return domain.EntryKey{}, false
	}
	return state.Entries[idx].Key(), true
}

func (m Model) fieldValue(key domain.EntryKey) string {
	state := m.controller.State()
	for _, e := range state.Entries {
		if e.Key() == key {
			if m.focus == domain.FieldWeight {
				return e.Weight
			}
			return e.Reps
		}
	}
	return ""
}

// View renders the session screen.
func (m Model) View() string {
	if m.controller.State() == nil {
		return "\n  Loading...\n"
	}
	if m.inFeedback {
		return m.viewFeedback()
	}
	return m.viewLive()
}

func (m Model) viewLive() string {
	state := m.controller.State()
	template := m.controller.Template()

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorAccent)).Bold(true)
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorDone))
	restStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorRest)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	var b strings.Builder
	b.WriteString("\n")

	elapsed := time.Since(state.StartedAt)
	b.WriteString(titleStyle.Render(fmt.Sprintf("  %s", template.Name)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  · %s elapsed", formatDuration(elapsed))))
	b.WriteString("\n\n")

	// Overall progress
	pbar := progress.New(progress.WithGradient(m.theme.GradientStart, m.theme.GradientEnd))
	barWidth := m.width - 14
	if barWidth > 50 {
		barWidth = 50
	}
	if barWidth < 10 {
		barWidth = 10
	}
	pbar.Width = barWidth
	pct := domain.OverallPercent(state.Entries)
	b.WriteString("  " + pbar.ViewAs(pct/100) + dimStyle.Render(fmt.Sprintf("  %.0f%%", pct)) + "\n")

	if left := m.controller.RestSecondsLeft(); left > 0 {
		b.WriteString(restStyle.Render(fmt.Sprintf("  ⏱ rest %s", formatSeconds(left))) + "\n")
	}
	b.WriteString("\n")

	for i, ex := range template.Exercises {
		p := domain.ProgressFor(state.Entries, i)
		mark := " "
		if p.Complete() {
			mark = doneStyle.Render("✓")
		}

		name := fmt.Sprintf("%s %s (%d/%d)", mark, ex.Name, p.Done, p.Total)
		if i == m.cursor {
			b.WriteString(accentStyle.Render("  ▸ "+name) + "\n")
			b.WriteString(m.viewExerciseDetail(i, ex))
		} else {
			b.WriteString(dimStyle.Render("    "+name) + "\n")
		}
	}

	if m.lastErr != nil {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("  "+m.lastErr.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  ↑/↓ exercise · tab field · 0-9 type · +/- adjust · enter done set") + "\n")
	b.WriteString(dimStyle.Render("  e edit all · p past sets · f finish · c cancel · q detach") + "\n")

	return b.String()
}

// viewExerciseDetail renders the editable rows for the cursor exercise.
func (m Model) viewExerciseDetail(exerciseIndex int, ex domain.Exercise) string {
	state := m.controller.State()
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorDone))

	showAll := state.Editing[exerciseIndex] || state.PastVisible[exerciseIndex]
	currentIdx := domain.CurrentEntryIndex(state.Entries, exerciseIndex)
	specs := ex.SetSpecs()

	var b strings.Builder
	setNo := 0
	for i, e := range state.Entries {
		if e.ExerciseIndex != exerciseIndex {
			continue
		}

		visible := showAll || i == currentIdx
		if state.PastVisible[exerciseIndex] && !state.Editing[exerciseIndex] {
			visible = e.Completed || i == currentIdx
		}
		if visible {
			target := ""
			if setNo < len(specs) {
				spec := specs[setNo]
				if spec.MaxReps > 0 {
					target = fmt.Sprintf(" (%d-%d reps)", spec.MinReps, spec.MaxReps)
				}
			}

			selected := showAll && setNo == m.setSel || !showAll
			b.WriteString(m.viewEntryRow(e, setNo+1, target, selected, dimStyle, doneStyle))
		}
		setNo++
	}
	if ex.VideoID != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("      ▶ https://www.youtube.com/watch?v=%s", ex.VideoID)) + "\n")
	}
	return b.String()
}

func (m Model) viewEntryRow(e domain.Entry, setNo int, target string, selected bool, dimStyle, doneStyle lipgloss.Style) string {
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorAccent)).Bold(true).Underline(true)

	weight := e.Weight
	reps := e.Reps
	if selected {
		if m.focus == domain.FieldWeight {
			weight = focusStyle.Render(weight)
		} else {
			reps = focusStyle.Render(reps)
		}
	}

	mark := " "
	if e.Completed {
		mark = doneStyle.Render("✓")
	}

	cursor := "  "
	if selected {
		cursor = dimStyle.Render("› ")
	}

	return fmt.Sprintf("      %s%s set %d: %s kg × %s%s\n", cursor, mark, setNo, weight, reps, dimStyle.Render(target))
}

func (m Model) viewFeedback() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorAccent)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  How was it?") + "\n\n")

	rows := []struct {
		field feedbackField
		label string
		value string
	}{
		{fbQuality, "Quality", ratingBar(m.quality)},
		{fbDifficulty, "Difficulty", ratingBar(m.difficulty)},
		{fbNotes, "Notes", m.notes.View()},
	}

	for _, row := range rows {
		line := fmt.Sprintf("%-12s %s", row.label, row.value)
		if row.field == m.fbFocus {
			b.WriteString(accentStyle.Render("  ▸ ") + line + "\n")
		} else {
			b.WriteString(dimStyle.Render("    "+line) + "\n")
		}
	}

	if m.submitErr != nil {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("  save failed: "+m.submitErr.Error()) + "\n")
		b.WriteString(dimStyle.Render("  enter to retry") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  ↑/↓ field · ←/→ rating · enter save · esc back") + "\n")

	return b.String()
}

func ratingBar(value int) string {
	return strings.Repeat("●", value) + strings.Repeat("○", 5-value)
}

// Run launches the session screen and blocks until it ends. The
// controller's phase tells the caller how the run ended.
func Run(controller ports.RunController, theme *config.ThemeConfig) error {
	p := tea.NewProgram(NewModel(controller, theme))
	_, err := p.Run()
	return err
}
