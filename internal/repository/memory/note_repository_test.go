package memory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinical-scribe-be/internal/entity"
)

func TestNoteRepositoryOrdering(t *testing.T) {
	repo := NewNoteRepository()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		n := &entity.Note{Id: uuid.New(), CreatedAt: time.Now()}
		ids = append(ids, n.Id)
		repo.Append("sess-1", n)
	}

	got := repo.List("sess-1")
	require.Len(t, got, 5)
	// Retrieval order is the reverse of insertion order.
	for i, n := range got {
		assert.Equal(t, ids[len(ids)-1-i], n.Id)
	}
}

func TestNoteRepositorySessionIsolation(t *testing.T) {
	repo := NewNoteRepository()
	repo.Append("sess-a", &entity.Note{Id: uuid.New()})

	assert.Len(t, repo.List("sess-a"), 1)
	assert.Empty(t, repo.List("sess-b"))
}

func TestNoteRepositoryFindById(t *testing.T) {
	repo := NewNoteRepository()
	n := &entity.Note{Id: uuid.New(), ClinicalNote: "note"}
	repo.Append("sess-1", n)

	found, ok := repo.FindById("sess-1", n.Id)
	require.True(t, ok)
	assert.Equal(t, n, found)

	_, ok = repo.FindById("sess-1", uuid.New())
	assert.False(t, ok)

	_, ok = repo.FindById("other", n.Id)
	assert.False(t, ok)
}

func TestNoteRepositoryRelease(t *testing.T) {
	repo := NewNoteRepository()
	repo.Append("sess-1", &entity.Note{Id: uuid.New()})
	repo.ReleaseSession("sess-1")
	assert.Empty(t, repo.List("sess-1"))
}

func TestSessionRepository(t *testing.T) {
	repo := NewSessionRepository(time.Hour)

	s := &entity.Session{ID: "sess-1", Phase: entity.PhaseIdle}
	repo.Save(s)

	got, ok := repo.Get("sess-1")
	require.True(t, ok)
	assert.Same(t, s, got)

	repo.Delete("sess-1")
	_, ok = repo.Get("sess-1")
	assert.False(t, ok)
}
