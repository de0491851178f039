package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"noteful-server/internal/domain"
)

var ErrNoteNotFound = errors.New("note not found")

// NoteRepository stores notes in insertion order. Implementations return
// copies; mutating a returned note never changes stored state.
type NoteRepository interface {
	List(ctx context.Context, searchTerm string) ([]*domain.Note, error)
	FindByID(ctx context.Context, id int) (*domain.Note, error)
	Create(ctx context.Context, note *domain.Note) (*domain.Note, error)
	Update(ctx context.Context, note *domain.Note) (*domain.Note, error)
}

// matchesSearch reports whether term occurs in the note's title or content,
// ignoring case. An empty term matches every note.
func matchesSearch(note *domain.Note, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(note.Title), term) ||
		strings.Contains(strings.ToLower(note.Content), term)
}

func nextNoteID(notes []*domain.Note) int {
	next := domain.FirstNoteID
	for _, n := range notes {
		if n.ID >= next {
			next = n.ID + 1
		}
	}
	return next
}

// validateNotes checks a decoded note list: every entry present, ids unique,
// titles non-blank.
func validateNotes(notes []*domain.Note) error {
	seen := make(map[int]struct{}, len(notes))
	for i, n := range notes {
		if n == nil {
			return fmt.Errorf("note %d is empty", i)
		}
		if _, ok := seen[n.ID]; ok {
			return fmt.Errorf("duplicate note id %d", n.ID)
		}
		seen[n.ID] = struct{}{}
		if strings.TrimSpace(n.Title) == "" {
			return fmt.Errorf("note %d has a blank title", n.ID)
		}
	}
	return nil
}
