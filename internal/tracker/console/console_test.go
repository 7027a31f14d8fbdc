package console

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/gartstein/employee-tracker/internal/tracker/controller"
	"github.com/gartstein/employee-tracker/internal/tracker/db"
	e "github.com/gartstein/employee-tracker/internal/tracker/errors"
	"github.com/gartstein/employee-tracker/internal/tracker/events"
	"github.com/gartstein/employee-tracker/internal/tracker/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// scriptedPrompter answers menu selections by label and inputs in order.
// Once the script runs out every prompt is cancelled.
type scriptedPrompter struct {
	t       *testing.T
	answers []string
	menus   []string
}

func (p *scriptedPrompter) pop() (string, bool) {
	if len(p.answers) == 0 {
		return "", false
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, true
}

func (p *scriptedPrompter) Select(label string, options []string) (int, error) {
	p.menus = append(p.menus, label)
	a, ok := p.pop()
	if !ok {
		return 0, e.ErrCancelled
	}
	for i, o := range options {
		if o == a {
			return i, nil
		}
	}
	p.t.Fatalf("option %q not offered for %q: %v", a, label, options)
	return 0, nil
}

func (p *scriptedPrompter) Confirm(string, bool) (bool, error) {
	a, ok := p.pop()
	if !ok {
		return false, e.ErrCancelled
	}
	return a == "y", nil
}

func (p *scriptedPrompter) Input(string, func(string) error) (string, error) {
	a, ok := p.pop()
	if !ok {
		return "", e.ErrCancelled
	}
	return a, nil
}

func newConsole(t *testing.T, answers ...string) (*Console, *scriptedPrompter, *bytes.Buffer) {
	logger := zaptest.NewLogger(t)
	repo, err := db.NewSQLiteRepository(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	svc, err := controller.NewService(repo, events.NopProducer{}, logger)
	require.NoError(t, err)

	prompt := &scriptedPrompter{t: t, answers: answers}
	out := &bytes.Buffer{}
	h := handlers.New(svc, prompt, out, logger)
	return New(h, prompt, out, logger), prompt, out
}

func TestRunDispatchesUntilExit(t *testing.T) {
	c, prompt, out := newConsole(t,
		"Department Options", "Add Department", "Sales", "View all Departments", "Back to Main Menu",
		"Exit",
	)

	require.NoError(t, c.Run(context.Background()))

	assert.Empty(t, prompt.answers)
	assert.Contains(t, out.String(), `Added department "Sales".`)
	assert.Contains(t, out.String(), "Department Name")
	assert.Contains(t, out.String(), "Exiting...")
	assert.Equal(t, []string{
		"What would you like to do?",
		"Department Options:",
		"Department Options:",
		"Department Options:",
		"What would you like to do?",
	}, prompt.menus)
}

func TestWorkflowErrorKeepsMenuRunning(t *testing.T) {
	c, _, out := newConsole(t,
		"Department Options", "Add Department", "Sales", "Add Department", "Sales", "Back to Main Menu",
		"Exit",
	)

	require.NoError(t, c.Run(context.Background()))

	assert.Contains(t, out.String(), " ERROR  A record with that name already exists.")
	assert.Contains(t, out.String(), "Exiting...")
}

func TestCancelledWorkflowPrintsNotice(t *testing.T) {
	c, _, out := newConsole(t, "Department Options", "Add Department")

	// The input prompt is cancelled, then the submenu, then the main menu.
	require.NoError(t, c.Run(context.Background()))

	assert.Contains(t, out.String(), "Operation cancelled.")
	assert.Contains(t, out.String(), "Exiting...")
}

func TestUpdateRoleSubmenuReturnsAfterOneWorkflow(t *testing.T) {
	c, prompt, out := newConsole(t,
		"Role Options", "Update Role", "Update Role Title", "Back to Main Menu", "Exit",
	)

	require.NoError(t, c.Run(context.Background()))

	assert.Contains(t, out.String(), "No roles found.")
	assert.Equal(t, []string{
		"What would you like to do?",
		"Role Options:",
		"Update Role:",
		"Role Options:",
		"What would you like to do?",
	}, prompt.menus)
}

func TestDispatchRecoversPanics(t *testing.T) {
	c, prompt, out := newConsole(t, "Boom", "Exit")
	m := menu{
		title: "Test:",
		root:  true,
		entries: []entry{
			{label: "Boom", run: func(context.Context) error { panic("nil map") }},
			{label: "Exit", exit: true},
		},
	}

	err := c.show(context.Background(), m)

	assert.ErrorIs(t, err, errExit)
	assert.Empty(t, prompt.answers)
	assert.Contains(t, out.String(), ` ERROR  Unexpected failure in "Boom": nil map`)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	c, _, _ := newConsole(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}
