// Package pickertest provides an in-memory picker.Gateway. Nothing completes
// on its own: tests decide when scripts finish loading and what the token
// client responds.
package pickertest

import (
	"fmt"
	"sync"

	"github.com/jun/drivepicker/internal/picker"
)

// Gateway implements picker.Gateway for tests.
type Gateway struct {
	mu            sync.Mutex
	scriptLoads   map[string][]func()
	scriptCalls   []string
	moduleLoads   []func()
	client        *TokenClient
	clientConfigs []picker.TokenClientConfig
	builds        []picker.BuildArgs
	widgets       []*Widget

	// BuildErr, when set, is returned by BuildPicker.
	BuildErr error
}

// NewGateway returns an empty Gateway.
func NewGateway() *Gateway {
	return &Gateway{scriptLoads: make(map[string][]func())}
}

// LoadScript records the request; CompleteScript fires it.
func (g *Gateway) LoadScript(url string, onLoad func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scriptCalls = append(g.scriptCalls, url)
	g.scriptLoads[url] = append(g.scriptLoads[url], onLoad)
}

// LoadPickerModule records the request; CompletePickerModule fires it.
func (g *Gateway) LoadPickerModule(onLoad func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.moduleLoads = append(g.moduleLoads, onLoad)
}

// InitTokenClient creates a TokenClient holding cfg.Callback.
func (g *Gateway) InitTokenClient(cfg picker.TokenClientConfig) picker.TokenClient {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clientConfigs = append(g.clientConfigs, cfg)
	g.client = &TokenClient{callback: cfg.Callback}
	return g.client
}

// BuildPicker records args and returns a Widget.
func (g *Gateway) BuildPicker(args picker.BuildArgs) (picker.Widget, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.BuildErr != nil {
		return nil, g.BuildErr
	}
	g.builds = append(g.builds, args)
	w := &Widget{Args: args}
	g.widgets = append(g.widgets, w)
	return w, nil
}

// CompleteScript fires every pending completion for url.
func (g *Gateway) CompleteScript(url string) {
	g.mu.Lock()
	pending := g.scriptLoads[url]
	delete(g.scriptLoads, url)
	g.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// CompletePickerModule fires every pending picker module completion.
func (g *Gateway) CompletePickerModule() {
	g.mu.Lock()
	pending := g.moduleLoads
	g.moduleLoads = nil
	g.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// LoadAll completes both scripts and the picker module.
func (g *Gateway) LoadAll() {
	g.CompleteScript(picker.ClientLibraryURL)
	g.CompleteScript(picker.PickerLibraryURL)
	g.CompletePickerModule()
}

// ScriptCalls returns every URL passed to LoadScript, in order.
func (g *Gateway) ScriptCalls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.scriptCalls...)
}

// Client returns the token client, or nil before InitTokenClient.
func (g *Gateway) Client() *TokenClient {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.client
}

// ClientConfigs returns every config passed to InitTokenClient.
func (g *Gateway) ClientConfigs() []picker.TokenClientConfig {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]picker.TokenClientConfig(nil), g.clientConfigs...)
}

// Builds returns the args of every BuildPicker call.
func (g *Gateway) Builds() []picker.BuildArgs {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]picker.BuildArgs(nil), g.builds...)
}

// Widgets returns every widget built so far.
func (g *Gateway) Widgets() []*Widget {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Widget(nil), g.widgets...)
}

// TokenClient is an in-memory picker.TokenClient.
type TokenClient struct {
	mu       sync.Mutex
	callback picker.TokenCallback
	requests []picker.TokenRequest
}

// SetCallback replaces the callback slot.
func (c *TokenClient) SetCallback(cb picker.TokenCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callback = cb
}

// RequestAccessToken records req. Respond delivers the answer.
func (c *TokenClient) RequestAccessToken(req picker.TokenRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
}

// Requests returns every recorded token request.
func (c *TokenClient) Requests() []picker.TokenRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]picker.TokenRequest(nil), c.requests...)
}

// Callback returns the currently installed callback.
func (c *TokenClient) Callback() picker.TokenCallback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.callback
}

// Respond delivers resp to the installed callback and returns its error.
func (c *TokenClient) Respond(resp picker.TokenResponse) error {
	cb := c.Callback()
	if cb == nil {
		return fmt.Errorf("pickertest: no callback installed")
	}
	return cb(resp)
}

// Grant responds with a successful token.
func (c *TokenClient) Grant(token string) error {
	return c.Respond(picker.TokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresIn: 3599})
}

// Widget is a built picker that records visibility changes.
type Widget struct {
	Args picker.BuildArgs

	mu      sync.Mutex
	visible bool
	shows   int
}

// SetVisible records the change.
func (w *Widget) SetVisible(visible bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = visible
	if visible {
		w.shows++
	}
}

// Visible reports the last visibility set.
func (w *Widget) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// Shows counts SetVisible(true) calls.
func (w *Widget) Shows() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shows
}
