package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/2beens/vibefit/internal/gymlog"
	"github.com/2beens/vibefit/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const restBarWidth = 30

var (
	readyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	restStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	barFullStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	barEmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#374151"))
)

type tickMsg time.Time

// restModel counts the rest period down on a terminal until the next set is due.
type restModel struct {
	service     *gymlog.Service
	state       *session.State
	total       time.Duration
	timer       gymlog.Timer
	spinner     spinner.Model
	interrupted bool
}

func newRestModel(service *gymlog.Service, state *session.State) restModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = restStyle

	timer := service.Timer(state)
	return restModel{
		service: service,
		state:   state,
		total:   time.Duration(timer.RestRemainingSeconds) * time.Second,
		timer:   timer,
		spinner: sp,
	}
}

func tick() tea.Cmd {
	return tea.Tick(followInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m restModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func (m restModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		m.timer = m.service.Timer(m.state)
		if m.timer.Ready {
			return m, tea.Quit
		}
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m restModel) View() string {
	elapsed := dimStyle.Render("⏱  " + m.timer.ElapsedClock)
	if m.timer.Ready {
		return fmt.Sprintf("%s  %s\n", elapsed, readyStyle.Render("rest READY, next set!"))
	}
	if m.interrupted {
		return fmt.Sprintf("%s  rest %s\n", elapsed, m.timer.RestClock)
	}

	return fmt.Sprintf("%s  %s rest %s  %s  %s\n",
		elapsed,
		m.spinner.View(),
		restStyle.Render(m.timer.RestClock),
		restBar(m.total, time.Duration(m.timer.RestRemainingSeconds)*time.Second),
		dimStyle.Render("q to stop"),
	)
}

// restBar fills up as the rest period runs out.
func restBar(total, remaining time.Duration) string {
	filled := restBarWidth
	if total > 0 {
		filled = int(float64(restBarWidth) * float64(total-remaining) / float64(total))
	}
	filled = min(max(filled, 0), restBarWidth)
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", restBarWidth-filled))
}

func runRestCountdown(ctx context.Context, out io.Writer, service *gymlog.Service, state *session.State) error {
	p := tea.NewProgram(
		newRestModel(service, state),
		tea.WithContext(ctx),
		tea.WithOutput(out),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("rest countdown: %w", err)
	}
	return nil
}
