package cli

import (
	"fmt"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"

	"github.com/trop3n/samc/internal/pipeline"
	"github.com/trop3n/samc/internal/vimeo"
)

// progressEvent is anything the pipeline reports while running.
type progressEvent any

// startEvent reports how many videos survived filtering.
type startEvent struct {
	total int
}

// videoEvent reports one reconciled video.
type videoEvent struct {
	index   int
	total   int
	video   vimeo.Video
	outcome pipeline.Outcome
}

// doneEvent carries the final summary.
type doneEvent struct {
	summary pipeline.Summary
	err     error
}

// chanObserver forwards pipeline callbacks onto the event channel.
type chanObserver struct {
	events chan<- progressEvent
}

func (o *chanObserver) OnStart(total int) {
	o.events <- startEvent{total: total}
}

func (o *chanObserver) OnVideo(index, total int, v vimeo.Video, outcome pipeline.Outcome) {
	o.events <- videoEvent{index: index, total: total, video: v, outcome: outcome}
}

// tagModel is the bubbletea model for the tagging run.
type tagModel struct {
	events   <-chan progressEvent
	cancel   func()
	progress progress.Model
	theme    theme

	total    int
	done     int
	last     string
	summary  pipeline.Summary
	err      error
	finished bool
	quitting bool
}

// newTagModel creates a new progress model.
func newTagModel(events <-chan progressEvent, cancel func()) tagModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return tagModel{
		events:   events,
		cancel:   cancel,
		progress: prog,
		theme:    defaultTheme,
	}
}

// Init returns the initial command (start listening for events).
func (m tagModel) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.events),
		m.progress.Init(),
	)
}

// Update handles messages and returns the updated model.
func (m tagModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			// The runner checks for cancellation between videos and
			// returns the partial summary; wait for it.
			m.quitting = true
			m.cancel()
			return m, nil
		}

	case startEvent:
		m.total = msg.total
		return m, waitForEvent(m.events)

	case videoEvent:
		m.done = msg.index
		m.total = msg.total
		m.last = fmt.Sprintf("%s — %s", msg.video.Name, msg.outcome)
		return m, waitForEvent(m.events)

	case doneEvent:
		m.summary = msg.summary
		m.err = msg.err
		m.finished = true
		return m, tea.Quit

	case progress.FrameMsg:
		// Update progress bar animation
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m tagModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

// renderContent builds the display string.
func (m tagModel) renderContent() string {
	if m.finished {
		return ""
	}

	if m.quitting {
		return m.theme.hintStyle().Render("Stopping after the current video...") + "\n"
	}

	if m.total == 0 {
		return "Listing recent videos...\n"
	}

	var pct float64
	if m.total > 0 {
		pct = float64(m.done) / float64(m.total)
	}

	status := m.theme.statusStyle().Render("[tagging]")
	progressBar := m.progress.ViewAs(pct)
	counts := fmt.Sprintf("%d/%d videos", m.done, m.total)
	hint := m.theme.hintStyle().Render("Press Ctrl+C to stop after the current video")

	out := fmt.Sprintf("%s %s %s\n", status, progressBar, counts)
	if m.last != "" {
		out += fmt.Sprintf("  %s\n", m.last)
	}
	out += hint + "\n"
	return out
}

// waitForEvent returns a command that delivers the next pipeline event.
func waitForEvent(events <-chan progressEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return ev
	}
}

// runTagProgress runs the interactive progress UI until the pipeline
// finishes, then returns its summary.
func runTagProgress(events <-chan progressEvent, cancel func()) (pipeline.Summary, error) {
	p := tea.NewProgram(newTagModel(events, cancel))

	finalModel, err := p.Run()
	if err != nil {
		// UI failure must not strand the run; stop it and drain the result.
		cancel()
		for ev := range events {
			if done, ok := ev.(doneEvent); ok {
				return done.summary, done.err
			}
		}
		return pipeline.Summary{}, fmt.Errorf("progress UI error: %w", err)
	}

	if m, ok := finalModel.(tagModel); ok {
		return m.summary, m.err
	}
	return pipeline.Summary{}, nil
}
