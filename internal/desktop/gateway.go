// Package desktop implements picker.Gateway for terminal use. Script loads
// become reachability probes, the token client runs a loopback OAuth consent
// flow, and the picker widget lists Drive files and asks the user to choose.
package desktop

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/jun/drivepicker/internal/picker"
)

// Options configures a Gateway.
type Options struct {
	ClientSecret string
	// RedirectAddr is the loopback address for the OAuth redirect.
	RedirectAddr string
	// Endpoint overrides the Google OAuth endpoint.
	Endpoint   oauth2.Endpoint
	HTTPClient *http.Client
	Files      FileLister
	Selector   Selector
	OpenURL    func(url string) error
	// Limit caps how many files the widget offers. Zero means 500.
	Limit  int
	Logger *log.Logger
	// OnTokenError receives errors returned by token callbacks.
	OnTokenError func(error)
}

// Gateway implements picker.Gateway.
type Gateway struct {
	ctx  context.Context
	opts Options
}

var _ picker.Gateway = (*Gateway)(nil)

// New returns a Gateway whose background work stops when ctx ends.
func New(ctx context.Context, opts Options) *Gateway {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default().WithPrefix("desktop")
	}
	if opts.Files == nil {
		opts.Files = &DriveLister{HTTPClient: opts.HTTPClient}
	}
	if opts.Limit == 0 {
		opts.Limit = 500
	}
	if opts.OnTokenError == nil {
		logger := opts.Logger
		opts.OnTokenError = func(err error) { logger.Error("token callback failed", "err", err) }
	}
	return &Gateway{ctx: ctx, opts: opts}
}

// LoadScript probes url in the background and calls onLoad when it answers
// with a success status. Failures are logged and never signal.
func (g *Gateway) LoadScript(url string, onLoad func()) {
	go func() {
		if err := g.probe(url); err != nil {
			g.opts.Logger.Error("script unavailable", "url", url, "err", err)
			return
		}
		onLoad()
	}()
}

func (g *Gateway) probe(url string) error {
	req, err := http.NewRequestWithContext(g.ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	resp, err := g.opts.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "fetch script")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// LoadPickerModule has nothing further to load on the desktop.
func (g *Gateway) LoadPickerModule(onLoad func()) {
	onLoad()
}

// InitTokenClient returns a TokenClient that obtains tokens through a
// ConsentFlow for cfg's client id and scopes.
func (g *Gateway) InitTokenClient(cfg picker.TokenClientConfig) picker.TokenClient {
	flow := &ConsentFlow{
		ClientID:     cfg.ClientID,
		ClientSecret: g.opts.ClientSecret,
		Scopes:       strings.Fields(cfg.Scope),
		ListenAddr:   g.opts.RedirectAddr,
		Endpoint:     g.opts.Endpoint,
		OpenURL:      g.opts.OpenURL,
		Logger:       g.opts.Logger,
	}
	return &TokenClient{
		ctx:       g.ctx,
		consenter: flow,
		logger:    g.opts.Logger,
		onError:   g.opts.OnTokenError,
		callback:  cfg.Callback,
	}
}

// BuildPicker returns a Widget for args. A Selector must be configured.
func (g *Gateway) BuildPicker(args picker.BuildArgs) (picker.Widget, error) {
	if args.OAuthToken == "" {
		return nil, errors.New("oauth token is required")
	}
	if g.opts.Selector == nil {
		return nil, errors.New("no selector configured")
	}
	return &Widget{
		ctx:      g.ctx,
		args:     args,
		files:    g.opts.Files,
		selector: g.opts.Selector,
		limit:    g.opts.Limit,
		logger:   g.opts.Logger,
		done:     make(chan struct{}),
	}, nil
}
