package memory

import (
	"sync"

	"github.com/google/uuid"

	"clinical-scribe-be/internal/entity"
)

// NoteRepository is the append-only, per-session note history. Notes are
// kept most-recent-first and are never edited or removed while the session
// lives; only ReleaseSession (session teardown) drops a list wholesale.
type NoteRepository struct {
	mu    sync.RWMutex
	notes map[string][]*entity.Note // sessionID -> newest first
}

func NewNoteRepository() *NoteRepository {
	return &NoteRepository{
		notes: make(map[string][]*entity.Note),
	}
}

// Append prepends the note so retrieval order is reverse of insertion order.
func (r *NoteRepository) Append(sessionID string, note *entity.Note) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[sessionID] = append([]*entity.Note{note}, r.notes[sessionID]...)
}

// List returns a copy of the session's notes, most recent first.
func (r *NoteRepository) List(sessionID string) []*entity.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.notes[sessionID]
	out := make([]*entity.Note, len(src))
	copy(out, src)
	return out
}

func (r *NoteRepository) FindById(sessionID string, id uuid.UUID) (*entity.Note, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.notes[sessionID] {
		if n.Id == id {
			return n, true
		}
	}
	return nil, false
}

// ReleaseSession drops the whole history when the owning session is evicted.
func (r *NoteRepository) ReleaseSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.notes, sessionID)
}
