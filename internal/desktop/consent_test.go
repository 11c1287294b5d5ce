package desktop

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jun/drivepicker/internal/picker"
)

func testFlow(tokenURL string, open func(string) error) *ConsentFlow {
	return &ConsentFlow{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		Scopes:       []string{"https://www.googleapis.com/auth/drive.readonly"},
		ListenAddr:   "127.0.0.1:0",
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://auth.example/authorize",
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		OpenURL: open,
		Logger:  log.New(io.Discard),
	}
}

// followRedirect plays the browser: it reads the auth URL and calls the
// loopback redirect with the given extra parameters.
func followRedirect(t *testing.T, extra url.Values) func(string) error {
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		require.NoError(t, err)
		q := u.Query()

		params := url.Values{"state": {q.Get("state")}}
		for k, v := range extra {
			params[k] = v
		}
		go func() {
			resp, err := http.Get(q.Get("redirect_uri") + "?" + params.Encode())
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}
}

func TestConsentFlow_AuthURLForcesConsent(t *testing.T) {
	f := testFlow("https://auth.example/token", nil)

	raw := f.AuthURL("http://127.0.0.1:9999/", "state-1", picker.PromptConsent)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()

	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "http://127.0.0.1:9999/", q.Get("redirect_uri"))
	assert.Equal(t, "https://www.googleapis.com/auth/drive.readonly", q.Get("scope"))
}

func TestConsentFlow_AuthURLWithoutPrompt(t *testing.T) {
	f := testFlow("https://auth.example/token", nil)

	u, err := url.Parse(f.AuthURL("http://127.0.0.1:9999/", "s", ""))
	require.NoError(t, err)
	assert.Empty(t, u.Query().Get("prompt"))
}

func TestRedirectHandler(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantSent   bool
		wantCode   string
		wantError  string
	}{
		{"success", "state=s1&code=abc", http.StatusOK, true, "abc", ""},
		{"provider error", "state=s1&error=access_denied&error_description=nope", http.StatusOK, true, "", "access_denied"},
		{"provider error without state", "error=access_denied", http.StatusBadRequest, false, "", ""},
		{"provider error with foreign state", "state=other&error=access_denied", http.StatusBadRequest, false, "", ""},
		{"state mismatch", "state=other&code=abc", http.StatusBadRequest, false, "", ""},
		{"missing code", "state=s1", http.StatusBadRequest, false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := make(chan redirectResult, 1)
			rec := httptest.NewRecorder()
			redirectHandler("s1", out).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			select {
			case res := <-out:
				require.True(t, tt.wantSent, "unexpected result %+v", res)
				assert.Equal(t, tt.wantCode, res.code)
				assert.Equal(t, tt.wantError, res.resp.Error)
			default:
				assert.False(t, tt.wantSent, "expected a result")
			}
		})
	}
}

func TestConsentFlow_AcquireExchangesCode(t *testing.T) {
	var gotCode string
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotCode = r.PostForm.Get("code")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"access_token":"tok-1","token_type":"Bearer","expires_in":3600,"scope":"https://www.googleapis.com/auth/drive.readonly"}`)
	}))
	defer tokenSrv.Close()

	f := testFlow(tokenSrv.URL, followRedirect(t, url.Values{"code": {"code-1"}}))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := f.Acquire(ctx, picker.PromptConsent)
	require.NoError(t, err)

	assert.Equal(t, "code-1", gotCode)
	assert.Empty(t, resp.Error)
	assert.Equal(t, "tok-1", resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "https://www.googleapis.com/auth/drive.readonly", resp.Scope)
	assert.InDelta(t, 3600, resp.ExpiresIn, 5)
}

func TestConsentFlow_AcquireReportsDenial(t *testing.T) {
	f := testFlow("https://auth.example/token", followRedirect(t, url.Values{"error": {"access_denied"}}))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := f.Acquire(ctx, picker.PromptConsent)
	require.NoError(t, err)
	assert.Equal(t, "access_denied", resp.Error)
	assert.Empty(t, resp.AccessToken)
}

func TestConsentFlow_AcquireExchangeFailure(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"invalid_grant","error_description":"code expired"}`)
	}))
	defer tokenSrv.Close()

	f := testFlow(tokenSrv.URL, followRedirect(t, url.Values{"code": {"stale"}}))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := f.Acquire(ctx, picker.PromptConsent)
	require.NoError(t, err)
	assert.Equal(t, "invalid_grant", resp.Error)
	assert.Equal(t, "code expired", resp.ErrorDescription)
}

func TestConsentFlow_AbandonedFlow(t *testing.T) {
	f := testFlow("https://auth.example/token", func(string) error { return nil })
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := f.Acquire(ctx, picker.PromptConsent)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
