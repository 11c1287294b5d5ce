package picker

import (
	"strings"
	"sync"
)

// TokenState is the lifecycle stage of a TokenManager.
type TokenState int

const (
	TokenUninitialized TokenState = iota
	TokenInitialized
	TokenAvailable
)

func (s TokenState) String() string {
	switch s {
	case TokenUninitialized:
		return "uninitialized"
	case TokenInitialized:
		return "initialized"
	case TokenAvailable:
		return "has-token"
	default:
		return "unknown"
	}
}

// callbackLink is one handler in the token client's callback chain. next is
// the link that sat in the client's slot when this one was installed.
type callbackLink struct {
	handle   TokenCallback
	followUp func() error
	once     sync.Once
	next     *callbackLink
}

// invoke runs the link's own handler, then the previously installed chain,
// then the follow-up. A failing step stops the rest and retires the
// follow-up, so a later response cannot fire it.
func (l *callbackLink) invoke(resp TokenResponse) error {
	if err := l.handle(resp); err != nil {
		l.retire()
		return err
	}
	if l.next != nil {
		if err := l.next.invoke(resp); err != nil {
			l.retire()
			return err
		}
	}
	var err error
	if l.followUp != nil {
		l.once.Do(func() { err = l.followUp() })
	}
	return err
}

func (l *callbackLink) retire() {
	l.once.Do(func() {})
}

// TokenManager owns the token client and the cached access token.
type TokenManager struct {
	mu          sync.Mutex
	client      TokenClient
	head        *callbackLink
	accessToken string
}

// NewTokenManager returns an uninitialized TokenManager.
func NewTokenManager() *TokenManager {
	return &TokenManager{}
}

// Init creates the token client. Only the first call has any effect.
func (m *TokenManager) Init(factory TokenClientFactory, clientID string, scopes []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client != nil {
		return
	}

	m.head = &callbackLink{handle: m.store}
	m.client = factory.InitTokenClient(TokenClientConfig{
		ClientID: clientID,
		Scope:    strings.Join(scopes, " "),
		Callback: m.head.invoke,
	})
}

// State reports where the manager is in its lifecycle.
func (m *TokenManager) State() TokenState {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.client == nil:
		return TokenUninitialized
	case m.accessToken == "":
		return TokenInitialized
	default:
		return TokenAvailable
	}
}

// AccessToken returns the cached token, if any.
func (m *TokenManager) AccessToken() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessToken, m.accessToken != ""
}

// Client returns the token client, or nil before Init.
func (m *TokenManager) Client() TokenClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client
}

// Install chains cb in front of the current callback. A response first
// stores the token, then runs cb, then every callback installed earlier.
func (m *TokenManager) Install(cb TokenCallback) error {
	_, err := m.install(func(resp TokenResponse) error {
		if err := m.store(resp); err != nil {
			return err
		}
		return cb(resp)
	}, nil)
	return err
}

// RequestAccessToken installs a wrapper that stores the new token, runs the
// previously installed chain and then followUp, and only then asks the
// client for a token.
func (m *TokenManager) RequestAccessToken(prompt Prompt, followUp func() error) error {
	client, err := m.install(m.store, followUp)
	if err != nil {
		return err
	}
	client.RequestAccessToken(TokenRequest{Prompt: prompt})
	return nil
}

func (m *TokenManager) install(handle TokenCallback, followUp func() error) (TokenClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return nil, ErrTokenClientNotReady
	}

	link := &callbackLink{handle: handle, followUp: followUp, next: m.head}
	m.head = link
	m.client.SetCallback(link.invoke)
	return m.client, nil
}

// store caches the token from a successful response. An error response
// leaves the cached token untouched.
func (m *TokenManager) store(resp TokenResponse) error {
	if err := tokenError(resp); err != nil {
		return err
	}
	m.mu.Lock()
	m.accessToken = resp.AccessToken
	m.mu.Unlock()
	return nil
}
