package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/boxtower/pkg/render/tower/layout"
)

// visibleIterations is how many recent solver calls the view lists.
const visibleIterations = 8

type iterationMsg layout.Iteration

type solveDoneMsg struct{ err error }

type tickMsg time.Time

// solveModel is a live view of the tightening loop: every solver call with
// its bound and outcome, newest last.
type solveModel struct {
	source     string
	iterations []layout.Iteration
	best       int
	frame      int
	done       bool
	err        error
}

func newSolveModel(source string) solveModel {
	return solveModel{source: source}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m solveModel) Init() tea.Cmd {
	return tick()
}

func (m solveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case iterationMsg:
		it := layout.Iteration(msg)
		m.iterations = append(m.iterations, it)
		if it.Sat {
			m.best = it.Perimeter
		}
	case solveDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame++
		return m, tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m solveModel) View() string {
	var b strings.Builder

	status := spinnerFrames[m.frame%len(spinnerFrames)] + " solving"
	switch {
	case m.done && m.err != nil:
		status = "failed"
	case m.done:
		status = "done"
	}
	b.WriteString(StyleTitle.Render("Layout "+m.source) + " " + StyleDim.Render(status))
	b.WriteString("\n")
	if m.best > 0 {
		b.WriteString(StyleDim.Render("best perimeter ") + StyleNumber.Render(fmt.Sprint(m.best)))
		b.WriteString("\n")
	}

	its := m.iterations
	if len(its) > visibleIterations {
		its = its[len(its)-visibleIterations:]
	}
	if len(its) > 0 {
		rows := make([][]string, len(its))
		for i, it := range its {
			rows[i] = []string{
				fmt.Sprint(it.N),
				fmt.Sprint(it.Bound),
				iterationOutcome(it),
				it.Elapsed.Round(time.Millisecond).String(),
			}
		}
		b.WriteString(renderTable([]string{"#", "bound", "result", "elapsed"}, rows))
		b.WriteString("\n")
	}
	return b.String()
}

func iterationOutcome(it layout.Iteration) string {
	if it.Sat {
		return fmt.Sprintf("found %d", it.Perimeter)
	}
	return "none"
}
