package picker

import "github.com/jun/drivepicker/internal/schema"

// Script resources the loader needs before a picker can be built.
const (
	ClientLibraryURL = "https://accounts.google.com/gsi/client"
	PickerLibraryURL = "https://apis.google.com/js/api.js"
)

// ScriptHost loads external script resources.
type ScriptHost interface {
	// LoadScript starts loading url and calls onLoad once the script has
	// finished loading. A failed load never calls onLoad.
	LoadScript(url string, onLoad func())
}

// PickerModuleHost initialises the picker module once its library script is
// present.
type PickerModuleHost interface {
	LoadPickerModule(onLoad func())
}

// TokenClientFactory creates the external OAuth token client.
type TokenClientFactory interface {
	InitTokenClient(cfg TokenClientConfig) TokenClient
}

// WidgetFactory builds the external picker widget.
type WidgetFactory interface {
	BuildPicker(args BuildArgs) (Widget, error)
}

// Gateway bundles every capability the loader needs from the external
// libraries.
type Gateway interface {
	ScriptHost
	PickerModuleHost
	TokenClientFactory
	WidgetFactory
}

// Widget is a built picker.
type Widget interface {
	SetVisible(visible bool)
}

// TokenClientConfig is passed to InitTokenClient.
type TokenClientConfig struct {
	ClientID string
	// Scope holds the requested scopes joined by single spaces.
	Scope    string
	Callback TokenCallback
}

// TokenClient is the opaque handle to the external OAuth flow. Its callback
// slot is replaced at runtime; a response is always delivered to whatever
// callback is installed when it arrives.
type TokenClient interface {
	SetCallback(cb TokenCallback)
	RequestAccessToken(req TokenRequest)
}

// TokenCallback handles a token response. The error it returns surfaces in
// the asynchronous context that delivered the response.
type TokenCallback func(resp TokenResponse) error

// Prompt selects the consent behaviour of a token request.
type Prompt string

// PromptConsent always shows the consent screen.
const PromptConsent Prompt = "consent"

// TokenRequest parameterises RequestAccessToken.
type TokenRequest struct {
	Prompt Prompt
}

// TokenResponse mirrors the fields of an OAuth token response.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int    `json:"expires_in"`
	Scope            string `json:"scope"`
	TokenType        string `json:"token_type"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorURI         string `json:"error_uri"`
}

// BuildArgs is everything the widget factory needs to build a picker.
type BuildArgs struct {
	ViewID         schema.ViewID
	MimeTypes      []string
	OAuthToken     string
	DeveloperKey   string
	AppID          string
	Callback       schema.PickerCallback
	Multiselect    bool
	SupportDrives  bool
	ShowUploadView bool
	CustomViews    []string
}
