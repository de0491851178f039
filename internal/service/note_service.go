package service

import (
	"context"
	"strconv"

	"noteful-server/internal/domain"
	"noteful-server/internal/repository"

	"github.com/go-playground/validator/v10"
)

const DefaultListLimit = 10

// ChangeNotifier is told about every note that was created or updated.
type ChangeNotifier interface {
	NoteCreated(note *domain.NoteResponse)
	NoteUpdated(note *domain.NoteResponse)
}

type NoteService struct {
	repo      repository.NoteRepository
	notifier  ChangeNotifier
	validate  *validator.Validate
	listLimit int
}

// NewNoteService builds the service. notifier may be nil; listLimit <= 0
// falls back to DefaultListLimit.
func NewNoteService(repo repository.NoteRepository, notifier ChangeNotifier, listLimit int) *NoteService {
	if listLimit <= 0 {
		listLimit = DefaultListLimit
	}
	return &NoteService{
		repo:      repo,
		notifier:  notifier,
		validate:  newValidator(),
		listLimit: listLimit,
	}
}

// List returns notes matching searchTerm. Without a term the result is
// capped at the configured list limit.
func (s *NoteService) List(ctx context.Context, searchTerm string) ([]*domain.NoteResponse, error) {
	notes, err := s.repo.List(ctx, searchTerm)
	if err != nil {
		return nil, err
	}

	if searchTerm == "" && len(notes) > s.listLimit {
		notes = notes[:s.listLimit]
	}

	responses := make([]*domain.NoteResponse, 0, len(notes))
	for _, n := range notes {
		responses = append(responses, n.ToResponse())
	}

	return responses, nil
}

func (s *NoteService) GetByID(ctx context.Context, rawID string) (*domain.NoteResponse, error) {
	id, err := parseNoteID(rawID)
	if err != nil {
		return nil, err
	}

	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return note.ToResponse(), nil
}

func (s *NoteService) Create(ctx context.Context, req *domain.CreateNoteRequest) (*domain.NoteResponse, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	note, err := s.repo.Create(ctx, &domain.Note{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return nil, err
	}

	response := note.ToResponse()
	if s.notifier != nil {
		s.notifier.NoteCreated(response)
	}

	return response, nil
}

// Update validates the body before resolving the id, so a missing title is
// reported as 400 even for an unknown note.
func (s *NoteService) Update(ctx context.Context, rawID string, req *domain.UpdateNoteRequest) (*domain.NoteResponse, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	id, err := parseNoteID(rawID)
	if err != nil {
		return nil, err
	}

	note, err := s.repo.Update(ctx, &domain.Note{
		ID:      id,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return nil, err
	}

	response := note.ToResponse()
	if s.notifier != nil {
		s.notifier.NoteUpdated(response)
	}

	return response, nil
}

// parseNoteID accepts only the canonical decimal form, so "+1003" and
// "01003" do not alias note 1003.
func parseNoteID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || strconv.Itoa(id) != raw {
		return 0, ErrNoteNotFound
	}
	return id, nil
}
