package guard

import "sync"

// History records navigations. It satisfies the API gateway's navigator, so a
// 401 lands here as a move to the login view.
type History struct {
	mu      sync.Mutex
	entries []string
	listen  []func(path string)
}

func NewHistory(start string) *History {
	if start == "" {
		start = PathHome
	}
	return &History{entries: []string{start}}
}

// Navigate moves to path
func (h *History) Navigate(path string) {
	h.mu.Lock()
	h.entries = append(h.entries, path)
	listeners := append([]func(string){}, h.listen...)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(path)
	}
}

// OnNavigate registers fn to run after every navigation
func (h *History) OnNavigate(fn func(path string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listen = append(h.listen, fn)
}

// Current returns the latest location
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Entries returns every location visited, oldest first
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}
