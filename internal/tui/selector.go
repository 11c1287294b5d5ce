package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/jun/drivepicker/internal/desktop"
	"github.com/jun/drivepicker/internal/schema"
)

// Selector runs a Model as a bubbletea program. It implements
// desktop.Selector.
type Selector struct {
	// Input and Output default to the terminal when nil.
	Input     io.Reader
	Output    io.Writer
	AltScreen bool
	Styles    *Styles
}

var _ desktop.Selector = (*Selector)(nil)

// Select shows docs and blocks until the user confirms, cancels or ctx ends.
func (s *Selector) Select(ctx context.Context, title string, docs []schema.Document, multiselect bool) (desktop.Selection, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if s.Input != nil {
		opts = append(opts, tea.WithInput(s.Input))
	}
	if s.Output != nil {
		opts = append(opts, tea.WithOutput(s.Output))
	}
	if s.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(NewModel(title, docs, multiselect, s.Styles), opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return desktop.Selection{}, ctxErr
		}
		return desktop.Selection{}, errors.Wrap(err, "run selector")
	}

	m, ok := final.(*Model)
	if !ok {
		return desktop.Selection{}, errors.Errorf("unexpected model %T", final)
	}
	return m.Selection(), nil
}
