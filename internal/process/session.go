package process

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Session ties an opaque token to a started process plus whatever the
// starter needs to find its output again. Video recording start/stop are
// independent calls; the registry is the only state shared between them, so
// concurrent recordings stay individually addressable.
type Session struct {
	Token      string
	Proc       Proc
	RemotePath string // device-side output file, if any
	LocalPath  string // host-side output file, if any
}

// SessionRegistry maps recording tokens to live process handles.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*Session)}
}

// Add registers a started process and returns its token.
func (r *SessionRegistry) Add(p Proc, remotePath, localPath string) *Session {
	s := &Session{
		Token:      uuid.NewString(),
		Proc:       p,
		RemotePath: remotePath,
		LocalPath:  localPath,
	}
	r.mu.Lock()
	r.sessions[s.Token] = s
	r.mu.Unlock()
	return s
}

// Take removes and returns the session for token. A token can be taken once.
func (r *SessionRegistry) Take(token string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[token]
	if !ok {
		return nil, fmt.Errorf("no recording session %q", token)
	}
	delete(r.sessions, token)
	return s, nil
}

// size reports the number of live sessions.
func (r *SessionRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
