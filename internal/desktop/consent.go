package desktop

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pkg/browser"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/jun/drivepicker/internal/picker"
)

// ConsentFlow runs the installed-app OAuth flow: it serves a loopback
// redirect, opens the consent page in the user's browser and exchanges the
// returned code.
type ConsentFlow struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
	// ListenAddr is the loopback address for the redirect, "localhost:0"
	// picks a free port.
	ListenAddr string
	Endpoint   oauth2.Endpoint
	OpenURL    func(url string) error
	Logger     *log.Logger
}

func (f *ConsentFlow) oauthConfig(redirectURL string) *oauth2.Config {
	endpoint := f.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = google.Endpoint
	}
	return &oauth2.Config{
		ClientID:     f.ClientID,
		ClientSecret: f.ClientSecret,
		RedirectURL:  redirectURL,
		Scopes:       f.Scopes,
		Endpoint:     endpoint,
	}
}

// AuthURL returns the consent page URL. PromptConsent forces the consent
// screen even for users who already granted access.
func (f *ConsentFlow) AuthURL(redirectURL, state string, prompt picker.Prompt) string {
	opts := []oauth2.AuthCodeOption{}
	if prompt == picker.PromptConsent {
		opts = append(opts, oauth2.ApprovalForce)
	}
	return f.oauthConfig(redirectURL).AuthCodeURL(state, opts...)
}

type redirectResult struct {
	code string
	resp picker.TokenResponse
}

// redirectHandler accepts the first redirect carrying a matching state and
// reports it on out. out must have room for one value.
func redirectHandler(state string, out chan<- redirectResult) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var res redirectResult
		switch {
		case r.FormValue("state") != state:
			http.Error(w, "Invalid state parameter.", http.StatusBadRequest)
			return
		case r.FormValue("error") != "":
			res.resp = picker.TokenResponse{
				Error:            r.FormValue("error"),
				ErrorDescription: r.FormValue("error_description"),
				ErrorURI:         r.FormValue("error_uri"),
			}
			fmt.Fprint(w, "Authorization failed. You can close this window.")
		case r.FormValue("code") == "":
			http.Error(w, "Missing code.", http.StatusBadRequest)
			return
		default:
			res.code = r.FormValue("code")
			fmt.Fprint(w, "Authorization complete. You can close this window and return to the terminal.")
		}

		select {
		case out <- res:
		default:
		}
	})
}

// Acquire runs one consent round trip. Failures of the flow itself come back
// as a TokenResponse with its Error field set. The returned error is only
// non-nil when ctx ends first, in which case no response exists.
func (f *ConsentFlow) Acquire(ctx context.Context, prompt picker.Prompt) (picker.TokenResponse, error) {
	addr := f.ListenAddr
	if addr == "" {
		addr = "localhost:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return failure("server_error", errors.Wrapf(err, "listen on %s", addr)), nil
	}
	redirectURL := "http://" + ln.Addr().String() + "/"

	state := uuid.NewString()
	results := make(chan redirectResult, 1)
	srv := &http.Server{Handler: redirectHandler(state, results), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger().Warn("redirect server stopped", "err", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			f.logger().Warn("failed to shut down redirect server", "err", err)
		}
	}()

	authURL := f.AuthURL(redirectURL, state, prompt)
	open := f.OpenURL
	if open == nil {
		open = browser.OpenURL
	}
	if err := open(authURL); err != nil {
		f.logger().Info("open this URL to continue", "url", authURL)
	}

	var res redirectResult
	select {
	case res = <-results:
	case <-ctx.Done():
		return picker.TokenResponse{}, ctx.Err()
	}
	if res.code == "" {
		return res.resp, nil
	}

	tok, err := f.oauthConfig(redirectURL).Exchange(ctx, res.code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.ErrorCode != "" {
			return picker.TokenResponse{Error: rerr.ErrorCode, ErrorDescription: rerr.ErrorDescription, ErrorURI: rerr.ErrorURI}, nil
		}
		return failure("server_error", errors.Wrap(err, "exchange authorization code")), nil
	}
	return tokenResponse(tok, f.Scopes), nil
}

func (f *ConsentFlow) logger() *log.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return log.Default()
}

func tokenResponse(tok *oauth2.Token, scopes []string) picker.TokenResponse {
	resp := picker.TokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.Type(),
		Scope:       strings.Join(scopes, " "),
	}
	if s, ok := tok.Extra("scope").(string); ok && s != "" {
		resp.Scope = s
	}
	if !tok.Expiry.IsZero() {
		resp.ExpiresIn = int(time.Until(tok.Expiry).Seconds())
	}
	return resp
}

func failure(code string, err error) picker.TokenResponse {
	return picker.TokenResponse{Error: code, ErrorDescription: err.Error()}
}
