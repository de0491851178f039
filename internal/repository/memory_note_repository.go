package repository

import (
	"context"
	"sync"

	"noteful-server/internal/domain"
)

type memoryNoteRepository struct {
	mu    sync.RWMutex
	notes []*domain.Note
}

// NewMemoryNoteRepository returns a repository holding a private copy of seed.
func NewMemoryNoteRepository(seed []*domain.Note) NoteRepository {
	return newMemoryNoteRepository(seed)
}

func newMemoryNoteRepository(seed []*domain.Note) *memoryNoteRepository {
	r := &memoryNoteRepository{}
	r.replace(seed)
	return r
}

func (r *memoryNoteRepository) List(ctx context.Context, searchTerm string) ([]*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]*domain.Note, 0, len(r.notes))
	for _, n := range r.notes {
		if matchesSearch(n, searchTerm) {
			notes = append(notes, n.Clone())
		}
	}

	return notes, nil
}

func (r *memoryNoteRepository) FindByID(ctx context.Context, id int) (*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.notes[i].Clone(), nil
	}
	return nil, ErrNoteNotFound
}

func (r *memoryNoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := note.Clone()
	stored.ID = nextNoteID(r.notes)
	r.notes = append(r.notes, stored)

	return stored.Clone(), nil
}

func (r *memoryNoteRepository) Update(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(note.ID)
	if i < 0 {
		return nil, ErrNoteNotFound
	}

	r.notes[i].Title = note.Title
	r.notes[i].Content = note.Content

	return r.notes[i].Clone(), nil
}

// snapshot and replace are used by FileNoteRepository.

func (r *memoryNoteRepository) snapshot() []*domain.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Note, len(r.notes))
	for i, n := range r.notes {
		out[i] = n.Clone()
	}
	return out
}

func (r *memoryNoteRepository) replace(notes []*domain.Note) {
	copied := make([]*domain.Note, 0, len(notes))
	for _, n := range notes {
		copied = append(copied, n.Clone())
	}

	r.mu.Lock()
	r.notes = copied
	r.mu.Unlock()
}

func (r *memoryNoteRepository) indexOf(id int) int {
	for i, n := range r.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}
