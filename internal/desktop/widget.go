package desktop

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/jun/drivepicker/internal/picker"
	"github.com/jun/drivepicker/internal/schema"
)

// Selection is what a Selector returns.
type Selection struct {
	Docs      []schema.Document
	Cancelled bool
}

// Selector lets the user choose among the listed documents.
type Selector interface {
	Select(ctx context.Context, title string, docs []schema.Document, multiselect bool) (Selection, error)
}

// Widget is the desktop picker: a Drive listing followed by a selection
// prompt. Results reach the configured picker callback the way the browser
// widget reports them: "loaded" first, then "picked", "cancel" or "error".
type Widget struct {
	ctx      context.Context
	args     picker.BuildArgs
	files    FileLister
	selector Selector
	limit    int
	logger   *log.Logger
	start    sync.Once
	done     chan struct{}
}

// SetVisible starts the widget the first time it is made visible. Hiding a
// running widget is not supported and is ignored.
func (w *Widget) SetVisible(visible bool) {
	if !visible {
		return
	}
	w.start.Do(func() {
		go func() {
			defer close(w.done)
			w.run()
		}()
	})
}

// Done is closed once the widget has delivered its final result.
func (w *Widget) Done() <-chan struct{} { return w.done }

func (w *Widget) run() {
	if w.args.ShowUploadView {
		w.logger.Warn("upload view is not available in the terminal picker")
	}

	req := ListRequest{
		Query:         buildQuery(w.args.ViewID, w.args.MimeTypes, w.args.CustomViews),
		SupportDrives: w.args.SupportDrives,
		Limit:         w.limit,
	}
	w.logger.Debug("listing drive files", "query", req.Query)
	docs, err := w.files.ListDocuments(w.ctx, w.args.OAuthToken, w.args.DeveloperKey, req)
	if err != nil {
		w.logger.Error("failed to list drive files", "err", err)
		w.emit(schema.SelectionResult{Action: schema.ActionError})
		return
	}
	w.emit(schema.SelectionResult{Action: schema.ActionLoaded})

	title := fmt.Sprintf("Google Drive: %s", w.args.ViewID)
	sel, err := w.selector.Select(w.ctx, title, docs, w.args.Multiselect)
	switch {
	case err != nil:
		w.logger.Error("selection failed", "err", err)
		w.emit(schema.SelectionResult{Action: schema.ActionError})
	case sel.Cancelled:
		w.emit(schema.SelectionResult{Action: schema.ActionCancel, Docs: []schema.Document{}})
	default:
		w.emit(schema.SelectionResult{Action: schema.ActionPicked, Docs: sel.Docs})
	}
}

func (w *Widget) emit(res schema.SelectionResult) {
	if w.args.Callback != nil {
		w.args.Callback(res)
	}
}
