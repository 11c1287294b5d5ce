// Package picker coordinates the external script libraries and the OAuth
// token flow that must both settle before a Drive picker can be shown.
package picker

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/jun/drivepicker/internal/schema"
)

// Loader is the entry point for showing a picker. It loads both libraries
// when created and builds the picker once a token is available.
type Loader struct {
	credentials schema.Credentials
	config      schema.Config

	gateway   Gateway
	scripts   *ScriptLoader
	readiness *Readiness
	tokens    *TokenManager
	logger    *log.Logger
}

// Option customises a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for soft failures and progress.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New validates the credentials and configuration, then starts loading the
// client and picker libraries without waiting for them. Validation failures
// are returned as *schema.ValidationError.
func New(clientID, developerKey, appID string, cfg *schema.Config, gw Gateway, opts ...Option) (*Loader, error) {
	if gw == nil {
		return nil, ErrNilGateway
	}
	creds, conf, err := schema.Parse(clientID, developerKey, appID, cfg)
	if err != nil {
		return nil, err
	}

	l := &Loader{
		credentials: creds,
		config:      conf,
		gateway:     gw,
		scripts:     NewScriptLoader(gw),
		readiness:   NewReadiness(),
		tokens:      NewTokenManager(),
		logger:      log.Default().WithPrefix("picker"),
	}
	for _, opt := range opts {
		opt(l)
	}

	l.scripts.Load(ClientLibraryURL, l.onClientLibraryLoad)
	l.scripts.Load(PickerLibraryURL, l.onPickerLibraryLoad)
	return l, nil
}

func (l *Loader) onClientLibraryLoad() {
	l.tokens.Init(l.gateway, l.credentials.ClientID, l.config.Scopes)
	if l.readiness.MarkClientLibrary() {
		l.logger.Debug("client library ready")
	}
}

func (l *Loader) onPickerLibraryLoad() {
	l.gateway.LoadPickerModule(func() {
		if l.readiness.MarkPickerLibrary() {
			l.logger.Debug("picker library ready")
		}
	})
}

// ShowPicker shows the picker, first requesting a token with an explicit
// consent prompt when none is cached. In that case the picker is built from
// the token callback, after any previously installed callback has run.
//
// Calling ShowPicker before the libraries have loaded logs and returns nil.
// The returned error is only ever a synchronous build failure.
func (l *Loader) ShowPicker() error {
	if !l.readiness.PickerLibraryReady() {
		l.logger.Error("picker library not loaded yet")
		return nil
	}

	if _, ok := l.tokens.AccessToken(); ok {
		return l.buildAndShow()
	}

	if !l.readiness.ClientLibraryReady() {
		l.logger.Error("client library not loaded yet")
		return nil
	}
	l.logger.Debug("requesting access token", "prompt", PromptConsent)
	if err := l.tokens.RequestAccessToken(PromptConsent, l.buildAndShow); err != nil {
		return fmt.Errorf("request access token: %w", err)
	}
	return nil
}

func (l *Loader) buildAndShow() error {
	if !l.readiness.PickerLibraryReady() {
		l.logger.Error("picker library not loaded yet")
		return nil
	}

	widget, err := l.gateway.BuildPicker(l.buildArgs())
	if err != nil {
		return fmt.Errorf("build picker: %w", err)
	}
	widget.SetVisible(true)
	return nil
}

func (l *Loader) buildArgs() BuildArgs {
	token, _ := l.tokens.AccessToken()
	return BuildArgs{
		ViewID:         l.config.ViewID,
		MimeTypes:      slices.Clone(l.config.ViewMimeTypes),
		OAuthToken:     token,
		DeveloperKey:   l.credentials.DeveloperKey,
		AppID:          l.credentials.AppID,
		Callback:       l.config.PickerCallback,
		Multiselect:    l.config.Multiselect,
		SupportDrives:  l.config.SupportDrives,
		ShowUploadView: l.config.ShowUploadView,
		CustomViews:    slices.Clone(l.config.CustomViews),
	}
}

// OnToken chains cb onto the token client's callback. It fails with
// ErrTokenClientNotReady until the client library has loaded.
func (l *Loader) OnToken(cb TokenCallback) error {
	return l.tokens.Install(cb)
}

// WaitReady blocks until both libraries have loaded or ctx is done.
func (l *Loader) WaitReady(ctx context.Context) error {
	select {
	case <-l.readiness.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Credentials returns the validated credentials.
func (l *Loader) Credentials() schema.Credentials { return l.credentials }

// Config returns the validated configuration with defaults applied.
func (l *Loader) Config() schema.Config { return l.config }

// ViewID returns the configured view.
func (l *Loader) ViewID() schema.ViewID { return l.config.ViewID }

// Scopes returns the requested OAuth scopes.
func (l *Loader) Scopes() []string { return slices.Clone(l.config.Scopes) }

// MimeTypes returns the mime type filter for the main view.
func (l *Loader) MimeTypes() []string { return slices.Clone(l.config.ViewMimeTypes) }

// PickerCallback returns the configured selection callback.
func (l *Loader) PickerCallback() schema.PickerCallback { return l.config.PickerCallback }

// AccessToken returns the cached access token, or "" when there is none.
func (l *Loader) AccessToken() string {
	token, _ := l.tokens.AccessToken()
	return token
}

// TokenState reports the token manager's lifecycle stage.
func (l *Loader) TokenState() TokenState { return l.tokens.State() }

// ClientLibraryReady reports whether the client library has loaded.
func (l *Loader) ClientLibraryReady() bool { return l.readiness.ClientLibraryReady() }

// PickerLibraryReady reports whether the picker library has loaded.
func (l *Loader) PickerLibraryReady() bool { return l.readiness.PickerLibraryReady() }
