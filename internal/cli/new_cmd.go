package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/dishform/internal/cli/formatter"
	"github.com/alexanderramin/dishform/internal/dish"
	"github.com/alexanderramin/dishform/internal/form"
)

func newNewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "new",
		Short:       "Fill in a dish interactively and submit it",
		Annotations: map[string]string{fullScreen: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive == nil || !app.IsInteractive() {
				return errors.New("new needs a terminal; use \"dishform submit\" instead")
			}
			return runDishForm(cmd.Context(), app)
		},
	}
}

func runDishForm(ctx context.Context, app *App) error {
	m := newDishFormModel(app)
	defer m.ctrl.Close()

	_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// changedMsg tells the model the controller state moved on its own,
// e.g. a response arrived or the reset timer fired.
type changedMsg struct{}

// dishFormModel drives one form controller through a huh form. A fresh
// huh form is built whenever the controller resets its record.
type dishFormModel struct {
	app     *App
	ctrl    *form.Controller
	changes chan struct{}

	values  *formValues
	form    *huh.Form
	snap    form.Snapshot
	sent    bool
	notice  string
	spinner spinner.Model

	quitting bool
}

func newDishFormModel(app *App) *dishFormModel {
	changes := make(chan struct{}, 1)
	ctrl := app.newController(form.ObserverFunc(func(form.Snapshot) {
		select {
		case changes <- struct{}{}:
		default:
		}
	}))

	m := &dishFormModel{
		app:     app,
		ctrl:    ctrl,
		changes: changes,
		snap:    ctrl.Snapshot(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple)),
	}
	m.rebuild(newFormValues(m.snap.Record, app.Defaults))
	return m
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (m *dishFormModel) rebuild(v *formValues) {
	m.values = v
	m.form = buildDishForm(m.ctrl, v)
	m.sent = false
}

func (m *dishFormModel) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), waitForChange(m.changes))
}

func (m *dishFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc || msg.Type == tea.KeyCtrlC {
			m.quitting = true
			m.ctrl.Close()
			return m, tea.Quit
		}
	case changedMsg:
		return m, tea.Batch(m.refresh(), waitForChange(m.changes))
	case spinner.TickMsg:
		if !m.snap.Submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	f, cmd := m.form.Update(msg)
	if hf, ok := f.(*huh.Form); ok {
		m.form = hf
	}
	cmds = append(cmds, cmd)

	if m.form.State == huh.StateCompleted && !m.sent {
		cmds = append(cmds, m.complete())
	}
	cmds = append(cmds, m.refresh())
	return m, tea.Batch(cmds...)
}

// complete handles a finished huh form: either back to editing or a submit.
func (m *dishFormModel) complete() tea.Cmd {
	if !m.values.confirm {
		m.rebuild(m.values)
		return m.form.Init()
	}

	err := m.values.apply(m.ctrl)
	if err == nil {
		_, err = m.ctrl.Submit(context.Background())
	}
	if err != nil {
		m.notice = err.Error()
		m.values.confirm = false
		m.rebuild(m.values)
		return m.form.Init()
	}

	m.sent = true
	m.notice = ""
	m.snap = m.ctrl.Snapshot()
	return m.spinner.Tick
}

// refresh reloads the controller snapshot and starts a new form after a reset.
func (m *dishFormModel) refresh() tea.Cmd {
	prev := m.snap.Generation
	m.snap = m.ctrl.Snapshot()
	if m.snap.Generation == prev {
		return nil
	}
	m.rebuild(newFormValues(m.snap.Record, m.app.Defaults))
	return m.form.Init()
}

func (m *dishFormModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(formatter.Header("New dish"))
	b.WriteString("\n\n")
	if m.form.State == huh.StateCompleted {
		b.WriteString(recordSummary(m.snap.Record))
	} else {
		b.WriteString(m.form.View())
	}
	b.WriteString("\n")

	if m.snap.Submitting {
		b.WriteString("\n" + m.spinner.View() + " " + formatter.SendingMessage)
	}
	switch {
	case m.snap.Failed():
		b.WriteString("\n" + formatter.FormatErrors(m.snap.Errors))
	case m.snap.Status == form.StatusSucceeded:
		b.WriteString("\n" + formatter.StyleGreen.Render("✔ Dish submitted"))
	}
	if m.notice != "" {
		b.WriteString("\n" + formatter.StyleYellow.Render(m.notice))
	}

	b.WriteString("\n\n" + formatter.Dim("enter next · shift+tab back · esc quit"))
	return b.String()
}

func recordSummary(r dish.Record) string {
	rows := [][]string{
		{"name", r.Name},
		{"preparation time", r.PreparationTime},
		{"type", r.DishType().Label()},
	}
	if r.Attributes != nil {
		rows = append(rows, []string{"attributes", formatter.DescribeAttributes(r.Attributes)})
	}
	return formatter.RenderTable([]string{"FIELD", "VALUE"}, rows)
}
