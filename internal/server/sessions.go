package server

import (
	"sync"

	"github.com/ironsheep/lab-hue-mcp/internal/imaging"
)

// sessionTable holds hue sessions by image path, least recently used first.
// Adding a session beyond max closes the oldest one.
type sessionTable struct {
	mu     sync.Mutex
	max    int
	byPath map[string]*imaging.HueSession
	order  []string
}

func newSessionTable(max int) *sessionTable {
	return &sessionTable{max: max, byPath: make(map[string]*imaging.HueSession)}
}

// get returns the session for path, building one with build when there is
// none or when the existing one uses the other angle mode. It also returns
// the path of a session closed to make room, if any.
func (t *sessionTable) get(path string, absolute bool, build func() (*imaging.HueSession, error)) (*imaging.HueSession, string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if sess, ok := t.byPath[path]; ok {
		if sess.Absolute() == absolute {
			t.touch(path)
			return sess, "", nil
		}
		t.remove(path)
	}

	sess, err := build()
	if err != nil {
		return nil, "", err
	}

	var evicted string
	if len(t.order) >= t.max {
		evicted = t.order[0]
		t.remove(evicted)
	}
	t.byPath[path] = sess
	t.order = append(t.order, path)
	return sess, evicted, nil
}

// drop closes and forgets the session for path, reporting whether one existed.
func (t *sessionTable) drop(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.byPath[path]
	t.remove(path)
	return ok
}

func (t *sessionTable) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for path, sess := range t.byPath {
		sess.Close()
		delete(t.byPath, path)
	}
	t.order = t.order[:0]
}

func (t *sessionTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byPath)
}

// paths returns the session paths, least recently used first.
func (t *sessionTable) paths() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.order...)
}

func (t *sessionTable) touch(path string) {
	for i, p := range t.order {
		if p == path {
			t.order = append(append(t.order[:i:i], t.order[i+1:]...), path)
			return
		}
	}
}

func (t *sessionTable) remove(path string) {
	sess, ok := t.byPath[path]
	if !ok {
		return
	}
	sess.Close()
	delete(t.byPath, path)
	for i, p := range t.order {
		if p == path {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}
