//go:build js && wasm

package jsgateway

import (
	"fmt"
	"strings"
	"sync"
	"syscall/js"

	"github.com/jun/drivepicker/internal/picker"
)

// Gateway talks to the browser globals.
type Gateway struct {
	global js.Value
}

var _ picker.Gateway = (*Gateway)(nil)

// New returns a Gateway bound to the JS global object.
func New() *Gateway {
	return &Gateway{global: js.Global()}
}

func (g *Gateway) consoleError(args ...any) {
	g.global.Get("console").Call("error", args...)
}

func (g *Gateway) stringify(v js.Value) string {
	return g.global.Get("JSON").Call("stringify", v).String()
}

// LoadScript appends an async script tag for url. onLoad runs from the
// tag's load event; a failed load is reported to the console.
func (g *Gateway) LoadScript(url string, onLoad func()) {
	doc := g.global.Get("document")
	script := doc.Call("createElement", "script")
	script.Set("src", url)
	script.Set("async", true)
	script.Set("defer", true)

	var onload, onerror js.Func
	release := func() {
		onload.Release()
		onerror.Release()
	}
	onload = js.FuncOf(func(js.Value, []js.Value) any {
		release()
		onLoad()
		return nil
	})
	onerror = js.FuncOf(func(js.Value, []js.Value) any {
		release()
		g.consoleError("failed to load script", url)
		return nil
	})
	script.Set("onload", onload)
	script.Set("onerror", onerror)
	doc.Get("head").Call("appendChild", script)
}

// LoadPickerModule runs gapi.load("picker").
func (g *Gateway) LoadPickerModule(onLoad func()) {
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		cb.Release()
		onLoad()
		return nil
	})
	g.global.Get("gapi").Call("load", "picker", map[string]any{"callback": cb})
}

// InitTokenClient calls google.accounts.oauth2.initTokenClient. The JS
// client always calls back into Go, which dispatches to the current slot.
func (g *Gateway) InitTokenClient(cfg picker.TokenClientConfig) picker.TokenClient {
	c := &tokenClient{gateway: g, callback: cfg.Callback}
	c.fn = js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		c.deliver(args[0])
		return nil
	})
	c.handle = g.global.Get("google").Get("accounts").Get("oauth2").Call("initTokenClient", map[string]any{
		"client_id": cfg.ClientID,
		"scope":     cfg.Scope,
		"callback":  c.fn,
	})
	return c
}

type tokenClient struct {
	gateway *Gateway
	handle  js.Value
	fn      js.Func

	mu       sync.Mutex
	callback picker.TokenCallback
}

func (c *tokenClient) SetCallback(cb picker.TokenCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callback = cb
}

func (c *tokenClient) RequestAccessToken(req picker.TokenRequest) {
	opts := map[string]any{}
	if req.Prompt != "" {
		opts["prompt"] = string(req.Prompt)
	}
	c.handle.Call("requestAccessToken", opts)
}

func (c *tokenClient) deliver(v js.Value) {
	resp, err := DecodeToken(c.gateway.stringify(v))
	if err != nil {
		c.gateway.consoleError(err.Error())
		return
	}
	c.mu.Lock()
	cb := c.callback
	c.mu.Unlock()
	if cb == nil {
		return
	}
	if err := cb(resp); err != nil {
		c.gateway.consoleError(err.Error())
	}
}

// BuildPicker assembles a google.picker.PickerBuilder from args.
func (g *Gateway) BuildPicker(args picker.BuildArgs) (w picker.Widget, err error) {
	defer func() {
		if r := recover(); r != nil {
			jsErr, ok := r.(js.Error)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("build picker: %w", jsErr)
		}
	}()

	p := g.global.Get("google").Get("picker")
	if p.IsUndefined() {
		return nil, fmt.Errorf("google.picker is not loaded")
	}

	pl := newPlan(args)
	builder := p.Get("PickerBuilder").New()
	for _, v := range pl.Views {
		if v.Upload {
			builder.Call("addView", p.Get("DocsUploadView").New())
			continue
		}
		dv := p.Get("DocsView").New(p.Get("ViewId").Get(string(v.ID)))
		if len(v.MimeTypes) > 0 {
			dv.Call("setMimeTypes", strings.Join(v.MimeTypes, ","))
		}
		builder.Call("addView", dv)
	}
	for _, f := range pl.Features {
		builder.Call("enableFeature", p.Get("Feature").Get(f))
	}
	builder.Call("setOAuthToken", args.OAuthToken)
	builder.Call("setDeveloperKey", args.DeveloperKey)
	builder.Call("setAppId", args.AppID)

	if args.Callback != nil {
		var fn js.Func
		fn = js.FuncOf(func(_ js.Value, a []js.Value) any {
			if len(a) == 0 {
				return nil
			}
			res, err := DecodeSelection(g.stringify(a[0]))
			if err != nil {
				g.consoleError(err.Error())
				return nil
			}
			if terminal(res.Action) {
				defer fn.Release()
			}
			args.Callback(res)
			return nil
		})
		builder.Call("setCallback", fn)
	}

	return widget{v: builder.Call("build")}, nil
}

type widget struct {
	v js.Value
}

func (w widget) SetVisible(visible bool) {
	w.v.Call("setVisible", visible)
}

// ArgsOf converts JS call arguments for StringArgs.
func ArgsOf(values []js.Value) []Arg {
	out := make([]Arg, len(values))
	for i, v := range values {
		if v.Type() == js.TypeString {
			out[i] = Arg{IsString: true, Value: v.String()}
		}
	}
	return out
}
