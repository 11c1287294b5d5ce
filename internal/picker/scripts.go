package picker

import "sync"

type scriptState struct {
	loaded  bool
	waiters []func()
}

// ScriptLoader asks a ScriptHost for each URL at most once and fans the
// completion out to every caller that asked for it.
type ScriptLoader struct {
	host ScriptHost

	mu      sync.Mutex
	scripts map[string]*scriptState
}

// NewScriptLoader creates a ScriptLoader over host.
func NewScriptLoader(host ScriptHost) *ScriptLoader {
	return &ScriptLoader{host: host, scripts: make(map[string]*scriptState)}
}

// Load requests url and calls onLoad when it has loaded. If the script has
// already loaded, onLoad runs before Load returns.
func (l *ScriptLoader) Load(url string, onLoad func()) {
	l.mu.Lock()
	st, seen := l.scripts[url]
	if seen && st.loaded {
		l.mu.Unlock()
		if onLoad != nil {
			onLoad()
		}
		return
	}
	if !seen {
		st = &scriptState{}
		l.scripts[url] = st
	}
	if onLoad != nil {
		st.waiters = append(st.waiters, onLoad)
	}
	l.mu.Unlock()

	if !seen {
		l.host.LoadScript(url, func() { l.complete(url) })
	}
}

// Loaded reports whether url has finished loading.
func (l *ScriptLoader) Loaded(url string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.scripts[url]
	return ok && st.loaded
}

func (l *ScriptLoader) complete(url string) {
	l.mu.Lock()
	st := l.scripts[url]
	if st.loaded {
		l.mu.Unlock()
		return
	}
	st.loaded = true
	waiters := st.waiters
	st.waiters = nil
	l.mu.Unlock()

	for _, fn := range waiters {
		fn()
	}
}
