// Package prompt implements the terminal prompts of the console on top of
// promptui.
package prompt

import (
	"errors"
	"io"
	"strings"

	e "github.com/gartstein/employee-tracker/internal/tracker/errors"
	"github.com/manifoldco/promptui"
)

const defaultPageSize = 10

type Terminal struct {
	stdin    io.ReadCloser
	stdout   io.WriteCloser
	pageSize int
}

// New returns a Terminal reading from os.Stdin and writing to os.Stdout.
func New(pageSize int) *Terminal {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Terminal{pageSize: pageSize}
}

// NewWithIO binds the prompts to the given streams.
func NewWithIO(stdin io.ReadCloser, stdout io.WriteCloser, pageSize int) *Terminal {
	t := New(pageSize)
	t.stdin = stdin
	t.stdout = stdout
	return t
}

// Select shows options as a scrollable list. Typing "/" filters them.
func (t *Terminal) Select(label string, options []string) (int, error) {
	sel := promptui.Select{
		Label:    label,
		Items:    options,
		Size:     t.pageSize,
		Searcher: searcher(options),
		Stdin:    t.stdin,
		Stdout:   t.stdout,
	}
	idx, _, err := sel.Run()
	if err != nil {
		return 0, cancelled(err)
	}
	return idx, nil
}

func (t *Terminal) Confirm(label string, defaultYes bool) (bool, error) {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     t.stdin,
		Stdout:    t.stdout,
	}
	if defaultYes {
		p.Default = "y"
	}
	_, err := p.Run()
	return confirmed(err)
}

// Input re-prompts until validate accepts the line; the answer is trimmed.
func (t *Terminal) Input(label string, validate func(string) error) (string, error) {
	p := promptui.Prompt{
		Label:  label,
		Stdin:  t.stdin,
		Stdout: t.stdout,
	}
	if validate != nil {
		p.Validate = promptui.ValidateFunc(validate)
	}
	answer, err := p.Run()
	if err != nil {
		return "", cancelled(err)
	}
	return strings.TrimSpace(answer), nil
}

// searcher matches options case-insensitively, ignoring spaces.
func searcher(options []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		normalize := func(s string) string {
			return strings.ToLower(strings.ReplaceAll(s, " ", ""))
		}
		return strings.Contains(normalize(options[index]), normalize(input))
	}
}

// confirmed maps a confirm prompt result. promptui reports "no" as ErrAbort.
func confirmed(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	default:
		return false, cancelled(err)
	}
}

// cancelled turns Ctrl-C and Ctrl-D into ErrCancelled.
func cancelled(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return e.ErrCancelled
	}
	return err
}
