package viz

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/eoslab/internal/analysis"
	"github.com/san-kum/eoslab/internal/eos"
	"github.com/san-kum/eoslab/internal/log"
	"github.com/san-kum/eoslab/internal/substance"
)

const (
	stateModel = iota
	stateMolecule
	stateInputs
	stateResult
)

const customMolecule = "custom"

// field indexes
const (
	fieldTc = iota
	fieldPc
	fieldOmega
	fieldT
	fieldP
)

type field struct {
	name, unit string
	value      float64
	step       float64
}

func defaultFields() []field {
	return []field{
		{name: LabelTc, unit: "K", value: 647.1, step: 1},
		{name: LabelPc, unit: "bar", value: 220.64, step: 1},
		{name: "ω", value: 0.344, step: 0.01},
		{name: "T", unit: "K", value: 373.15, step: 1},
		{name: "P", unit: "bar", value: 1.01325, step: 0.1},
	}
}

// run is a snapshot of solved inputs.
type run struct {
	model    eos.Model
	molecule string
	fields   []field
}

type isothermMsg struct {
	points []analysis.IsothermPoint
	err    error
}

// App is the interactive solve form.
type App struct {
	state, cursor int
	models        []eos.Model
	molecules     []string

	model    eos.Model
	molecule string
	fields   []field
	editing  bool
	editBuf  string

	solver   *eos.Solver
	result   *eos.Result
	err      error
	last     *run
	isotherm []analysis.IsothermPoint
	showIso  bool

	styles Styles
	width  int
}

func NewApp(solver *eos.Solver) App {
	return App{
		state:     stateModel,
		models:    eos.Models(),
		molecules: append([]string{customMolecule}, substance.Names()...),
		model:     eos.PR,
		molecule:  customMolecule,
		fields:    defaultFields(),
		solver:    solver,
		styles:    NewStyles(DefaultTheme),
		width:     80,
	}
}

func (m App) Init() tea.Cmd { return nil }

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case isothermMsg:
		if msg.err == nil {
			m.isotherm = msg.points
		}
	}
	return m, nil
}

func (m App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if m.editing {
		return m.editKey(msg), nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "t":
		m.styles = NewStyles(m.styles.Theme.Next())
		return m, nil
	case "r":
		return m.replay()
	}

	switch m.state {
	case stateModel:
		return m.modelKey(msg)
	case stateMolecule:
		return m.moleculeKey(msg), nil
	case stateInputs:
		return m.inputsKey(msg)
	case stateResult:
		return m.resultKey(msg)
	}
	return m, nil
}

func (m App) modelKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.models)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.model = m.models[m.cursor]
		m.state, m.cursor = stateMolecule, 0
	}
	return m, nil
}

func (m App) moleculeKey(msg tea.KeyMsg) App {
	switch msg.String() {
	case "q", "esc":
		m.state, m.cursor = stateModel, int(m.model)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.molecules)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.molecule = m.molecules[m.cursor]
		if s, err := substance.Lookup(m.molecule); err == nil {
			m.fields[fieldTc].value = s.Tc
			m.fields[fieldPc].value = s.Pc
			m.fields[fieldOmega].value = s.Omega
		}
		m.state, m.cursor = stateInputs, fieldT
	}
	return m
}

func (m App) inputsKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.state, m.cursor = stateMolecule, 0
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.editing = true
		m.editBuf = strconv.FormatFloat(m.fields[m.cursor].value, 'g', -1, 64)
	case "left", "h":
		m.fields[m.cursor].value -= m.fields[m.cursor].step
	case "right", "l":
		m.fields[m.cursor].value += m.fields[m.cursor].step
	case "s":
		return m.solve()
	}
	return m, nil
}

func (m App) resultKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "b":
		m.state = stateInputs
	case "n":
		m.state, m.cursor = stateModel, int(m.model)
	case "i":
		m.showIso = !m.showIso
		if m.showIso && m.isotherm == nil && m.result != nil {
			return m, m.isothermCmd()
		}
	}
	return m, nil
}

func (m App) editKey(msg tea.KeyMsg) App {
	switch msg.String() {
	case "enter":
		if v, err := strconv.ParseFloat(strings.TrimSpace(m.editBuf), 64); err == nil {
			m.fields[m.cursor].value = v
		}
		m.editing, m.editBuf = false, ""
	case "esc":
		m.editing, m.editBuf = false, ""
	case "backspace":
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	default:
		if s := msg.String(); len(s) == 1 {
			c := s[0]
			if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
				m.editBuf += s
			}
		}
	}
	return m
}

func (m App) inputState() eos.State {
	f := m.fields
	return eos.State{
		Tc:    f[fieldTc].value,
		Pc:    f[fieldPc].value * eos.Bar,
		Omega: f[fieldOmega].value,
		T:     f[fieldT].value,
		P:     f[fieldP].value * eos.Bar,
	}
}

func (m App) solve() (App, tea.Cmd) {
	m.result, m.err = m.solver.Solve(m.model, m.inputState())
	m.last = &run{model: m.model, molecule: m.molecule, fields: cloneFields(m.fields)}
	m.isotherm = nil
	m.state = stateResult
	log.Debugw("tui solve", "model", m.model, "molecule", m.molecule, "error", m.err)
	if m.showIso && m.result != nil {
		return m, m.isothermCmd()
	}
	return m, nil
}

// replay restores the last solved inputs and solves them again.
func (m App) replay() (App, tea.Cmd) {
	if m.last == nil || m.editing {
		return m, nil
	}
	m.model = m.last.model
	m.molecule = m.last.molecule
	m.fields = cloneFields(m.last.fields)
	return m.solve()
}

func (m App) isothermCmd() tea.Cmd {
	solver, model, st := m.solver, m.model, m.result.State
	return func() tea.Msg {
		grid, err := analysis.PressureGrid(st.Pc*1e-3, st.Pc*2, 96, true)
		if err != nil {
			return isothermMsg{err: err}
		}
		points, err := analysis.Isotherm(context.Background(), solver, model, st, grid)
		return isothermMsg{points: points, err: err}
	}
}

func cloneFields(f []field) []field {
	out := make([]field, len(f))
	copy(out, f)
	return out
}

func (m App) View() string {
	switch m.state {
	case stateModel:
		return m.viewModel()
	case stateMolecule:
		return m.viewMolecule()
	case stateInputs:
		return m.viewInputs()
	case stateResult:
		return m.viewResult()
	}
	return ""
}

func (m App) header(sub string) string {
	t := m.styles.Theme
	return "\n\n    " + GradientText("EOSLAB", t.Title, t.Accent) +
		"\n    " + m.styles.Muted.Render(sub) +
		"\n    " + m.styles.Separator(25) + "\n\n"
}

func (m App) list(items []string, selected int) string {
	var b strings.Builder
	for i, name := range items {
		if i == selected {
			b.WriteString(fmt.Sprintf("    %s %s\n", m.styles.Cursor.Render("▸"), m.styles.Selected.Render(name)))
		} else {
			b.WriteString(fmt.Sprintf("      %s\n", m.styles.Muted.Render(name)))
		}
	}
	return b.String()
}

func (m App) viewModel() string {
	names := make([]string, len(m.models))
	for i, md := range m.models {
		names[i] = fmt.Sprintf("%-4s %s", md.String(), md.Name())
	}
	return m.header("cubic equation of state") + m.list(names, m.cursor) +
		"\n    " + m.styles.KeyHints([2]string{"j/k", "navigate"}, [2]string{"enter", "select"}, [2]string{"r", "replay"}, [2]string{"t", "theme"}, [2]string{"q", "quit"}) + "\n"
}

func (m App) viewMolecule() string {
	const window = 12
	start := 0
	if m.cursor >= window {
		start = m.cursor - window + 1
	}
	end := start + window
	if end > len(m.molecules) {
		end = len(m.molecules)
	}
	return m.header(m.model.Name()+" · molecule") + m.list(m.molecules[start:end], m.cursor-start) +
		"\n    " + m.styles.KeyHints([2]string{"j/k", "navigate"}, [2]string{"enter", "select"}, [2]string{"esc", "back"}) + "\n"
}

func (m App) viewInputs() string {
	var b strings.Builder
	b.WriteString(m.header(m.model.Name() + " · " + m.molecule))
	for i, f := range m.fields {
		val := fmt.Sprintf("%10.5g", f.value)
		if m.editing && i == m.cursor {
			val = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		label := fmt.Sprintf("%-4s", f.name)
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s %s %s\n", m.styles.Cursor.Render("▸"), m.styles.Selected.Render(label), m.styles.Value.Render(val), m.styles.Muted.Render(f.unit)))
		} else {
			b.WriteString(fmt.Sprintf("      %s %s %s\n", m.styles.Muted.Render(label), m.styles.Muted.Render(val), m.styles.Muted.Render(f.unit)))
		}
	}
	b.WriteString("\n    " + m.styles.KeyHints([2]string{"j/k", "select"}, [2]string{"enter", "edit"}, [2]string{"h/l", "adjust"}, [2]string{"s", "solve"}, [2]string{"esc", "back"}) + "\n")
	return b.String()
}

func (m App) viewResult() string {
	var b strings.Builder
	b.WriteString(m.header(m.model.Name() + " · " + m.molecule))
	if m.err != nil {
		b.WriteString("    " + m.styles.RenderError(m.err) + "\n")
	} else {
		b.WriteString(indent(m.styles.Result(m.result), "    ") + "\n")
		if m.showIso {
			b.WriteString("\n" + indent(m.viewIsotherm(), "    ") + "\n")
		}
	}
	b.WriteString("\n    " + m.styles.KeyHints([2]string{"esc", "edit"}, [2]string{"r", "replay"}, [2]string{"i", "isotherm"}, [2]string{"n", "new"}, [2]string{"t", "theme"}, [2]string{"q", "quit"}) + "\n")
	return b.String()
}

// viewIsotherm plots Z against log P for both branches.
func (m App) viewIsotherm() string {
	if len(m.isotherm) == 0 {
		return m.styles.Muted.Render("computing isotherm...")
	}

	n := len(m.isotherm)
	xs := make([]float64, n)
	liq := make([]float64, n)
	vap := make([]float64, n)
	zmax := 0.0
	for i, pt := range m.isotherm {
		xs[i] = math.Log10(pt.P)
		liq[i], vap[i] = math.NaN(), math.NaN()
		if pt.Liquid != nil {
			liq[i] = pt.Liquid.Z
			zmax = math.Max(zmax, liq[i])
		}
		if pt.Vapor != nil {
			vap[i] = pt.Vapor.Z
			zmax = math.Max(zmax, vap[i])
		}
	}

	w := 48
	if m.width > 20 && m.width-12 < w {
		w = m.width - 12
	}
	lc, vc := NewCanvas(w, 8), NewCanvas(w, 8)
	lc.Plot(xs, liq, xs[0], xs[n-1], 0, zmax)
	vc.Plot(xs, vap, xs[0], xs[n-1], 0, zmax)

	var b strings.Builder
	b.WriteString(m.styles.Label.Render(fmt.Sprintf("Z vs log P at T = %.2f K  ", m.result.State.T)) +
		m.styles.Liquid.Render("liquid") + " " + m.styles.Vapor.Render("vapor") + "\n")
	for row := range lc.Grid {
		for col := range lc.Grid[row] {
			switch {
			case vc.Grid[row][col] != brailleBlank:
				b.WriteString(m.styles.Vapor.Render(string(vc.Grid[row][col] | lc.Grid[row][col])))
			case lc.Grid[row][col] != brailleBlank:
				b.WriteString(m.styles.Liquid.Render(string(lc.Grid[row][col])))
			default:
				b.WriteRune(brailleBlank)
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%.3g … %.3g bar", m.isotherm[0].P/eos.Bar, m.isotherm[n-1].P/eos.Bar)))
	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// Run starts the interactive form.
func Run(solver *eos.Solver) error {
	_, err := tea.NewProgram(NewApp(solver), tea.WithAltScreen()).Run()
	return err
}
