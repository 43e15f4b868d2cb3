package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotex/internal/tasks"
)

// Model represents the extraction progress view state.
type Model struct {
	ctx     context.Context
	engine  *tasks.ExtractEngine
	bar     progress.Model
	updates chan tasks.ProgressUpdate
	current tasks.ProgressUpdate
	stats   *tasks.RunStats
	err     error
	done    bool
	width   int
}

// NewModel creates a progress view that will run the given engine.
func NewModel(ctx context.Context, engine *tasks.ExtractEngine) Model {
	return Model{
		ctx:     ctx,
		engine:  engine,
		bar:     progress.New(progress.WithDefaultGradient()),
		updates: make(chan tasks.ProgressUpdate, 64),
	}
}

// Stats returns the finished run's stats, nil until the run completes.
func (m Model) Stats() *tasks.RunStats { return m.stats }

// Err returns the run error, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startRun(), m.waitForUpdate())
}

// startRun executes the engine in the background and closes the update
// channel when it returns.
func (m Model) startRun() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.engine.Run(m.ctx, m.updates)
		close(m.updates)
		return runCompleteMsg(stats, err)
	}
}

// waitForUpdate blocks on the progress channel until the next update or
// until the engine closes it.
func (m Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.updates
		if !ok {
			return updatesDrainedMsg()
		}
		return progressUpdateMsg(update)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(msg.Width-4, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.current = msg.data.(tasks.ProgressUpdate)
			return m, m.waitForUpdate()

		case MsgUpdatesDrained:
			return m, nil

		case MsgRunComplete:
			data := msg.data.(struct {
				stats *tasks.RunStats
				err   error
			})
			m.stats = data.stats
			m.err = data.err
			m.done = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m Model) View() string {
	view := styles.title.Render("Extracting library") + "\n"

	if m.done {
		if m.err != nil {
			return view + styles.err.Render(fmt.Sprintf("✗ Extraction failed: %v", m.err)) + "\n"
		}
		view += styles.ok.Render("✓ Extraction complete") + "\n"
		view += fmt.Sprintf("  Playlists: %d  Tracks: %d  Rows inserted: %d\n",
			m.stats.Playlists, m.stats.Tracks, m.stats.Load.Total())
		if m.stats.SkippedTracks > 0 {
			view += styles.warn.Render(fmt.Sprintf("  Skipped tracks: %d", m.stats.SkippedTracks)) + "\n"
		}
		if m.stats.BackfilledGenres > 0 {
			view += fmt.Sprintf("  Backfilled genres: %d\n", m.stats.BackfilledGenres)
		}
		return view
	}

	percent := 0.0
	if m.current.Total > 0 {
		percent = float64(m.current.Step) / float64(m.current.Total)
	}
	view += m.bar.ViewAs(percent) + "\n"
	view += m.current.String() + "\n"
	view += styles.help.Render("q to quit") + "\n"

	return view
}

// Run drives the model to completion and returns the run's outcome.
func Run(ctx context.Context, engine *tasks.ExtractEngine) (*tasks.RunStats, error) {
	final, err := tea.NewProgram(NewModel(ctx, engine)).Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run progress view: %w", err)
	}

	model := final.(Model)
	if model.err != nil {
		return model.stats, model.err
	}
	if model.stats == nil {
		return nil, fmt.Errorf("extraction interrupted")
	}
	return model.stats, nil
}
