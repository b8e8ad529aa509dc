package cli

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/susops/susops-tray/common"
	"github.com/susops/susops-tray/proxy"
)

var (
	watchTitleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	watchDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	watchBoxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2)
)

type tickMsg time.Time

type statusMsg proxy.Result

// watchModel is the Bubble Tea model behind --watch: a status line that
// re-polls on the tray's poll interval.
type watchModel struct {
	runner  *proxy.Runner
	spinner spinner.Model

	state   proxy.ProcessState
	output  string
	polling bool
	updated time.Time
}

func newWatchModel(runner *proxy.Runner) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	return watchModel{
		runner:  runner,
		spinner: sp,
		state:   proxy.StateInitial,
		polling: true,
	}
}

// Init implements tea.Model.
func (m watchModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		pollCmd(m.runner),
		tickCmd(),
	)
}

// Update implements tea.Model.
func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.polling = true
			return m, pollCmd(m.runner)
		}
		return m, nil

	case tickMsg:
		m.polling = true
		return m, tea.Batch(pollCmd(m.runner), tickCmd())

	case statusMsg:
		m.state = proxy.StateFromExitCode(msg.ExitCode)
		m.output = msg.Output
		m.polling = false
		m.updated = time.Now()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m watchModel) View() string {
	status := m.state.Dot() + " " + styleFor(m.state).Render("proxy "+m.state.String())
	if m.polling {
		status = m.spinner.View() + " " + status
	}

	lines := watchTitleStyle.Render("SusOps Proxy") + "\n" + status
	if m.output != "" {
		lines += "\n\n" + m.output
	}
	if !m.updated.IsZero() {
		lines += "\n" + watchDimStyle.Render("updated "+m.updated.Format("15:04:05")+"  ·  q quit · r refresh")
	}
	return watchBoxStyle.Render(lines) + "\n"
}

func tickCmd() tea.Cmd {
	return tea.Tick(common.PollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func pollCmd(runner *proxy.Runner) tea.Cmd {
	return func() tea.Msg {
		return statusMsg(runner.Run([]string{"ps"}, common.StatusTimeout))
	}
}

// Watch runs the live status view until the user quits.
func (c *CLI) Watch() int {
	p := tea.NewProgram(newWatchModel(c.runner))
	if _, err := p.Run(); err != nil {
		common.LogError("Watch UI failed: %v", err)
		return 1
	}
	return 0
}
