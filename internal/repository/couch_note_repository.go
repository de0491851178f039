package repository

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sort"

	"noteful-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

const (
	couchNoteType = "note"
	// Mango queries default to 25 rows; the note list is small and unpaginated.
	couchFindLimit    = 10000
	couchMaxIDRetries = 5
)

type couchNote struct {
	DocID   string `json:"_id"`
	Rev     string `json:"_rev,omitempty"`
	Type    string `json:"type"`
	NoteID  int    `json:"note_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (c *couchNote) toDomain() *domain.Note {
	return &domain.Note{ID: c.NoteID, Title: c.Title, Content: c.Content}
}

// CouchNoteRepository stores each note as a CouchDB document keyed note:<id>.
type CouchNoteRepository struct {
	client *kivik.Client
	dbName string
}

func NewCouchNoteRepository(client *kivik.Client, dbName string) *CouchNoteRepository {
	return &CouchNoteRepository{
		client: client,
		dbName: dbName,
	}
}

func couchDocID(id int) string {
	return fmt.Sprintf("note:%d", id)
}

func (r *CouchNoteRepository) List(ctx context.Context, searchTerm string) ([]*domain.Note, error) {
	selector := map[string]interface{}{
		"type": couchNoteType,
	}
	if searchTerm != "" {
		pattern := "(?i)" + regexp.QuoteMeta(searchTerm)
		selector["$or"] = []interface{}{
			map[string]interface{}{"title": map[string]interface{}{"$regex": pattern}},
			map[string]interface{}{"content": map[string]interface{}{"$regex": pattern}},
		}
	}

	docs, err := r.find(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	notes := make([]*domain.Note, 0, len(docs))
	for _, d := range docs {
		notes = append(notes, d.toDomain())
	}
	return notes, nil
}

func (r *CouchNoteRepository) FindByID(ctx context.Context, id int) (*domain.Note, error) {
	doc, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// Create claims the next free id. A concurrent writer taking the same id
// surfaces as a 409 from CouchDB, in which case the next id is tried.
func (r *CouchNoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	db := r.client.DB(r.dbName)

	docs, err := r.find(ctx, map[string]interface{}{"type": couchNoteType})
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	next := domain.FirstNoteID
	for _, d := range docs {
		if d.NoteID >= next {
			next = d.NoteID + 1
		}
	}

	for attempt := 0; attempt < couchMaxIDRetries; attempt++ {
		doc := &couchNote{
			DocID:   couchDocID(next),
			Type:    couchNoteType,
			NoteID:  next,
			Title:   note.Title,
			Content: note.Content,
		}

		_, err := db.Put(ctx, doc.DocID, doc)
		if err == nil {
			return doc.toDomain(), nil
		}
		if kivik.HTTPStatus(err) != http.StatusConflict {
			return nil, fmt.Errorf("failed to create note: %w", err)
		}
		next++
	}

	return nil, fmt.Errorf("failed to create note: no free id after %d attempts", couchMaxIDRetries)
}

func (r *CouchNoteRepository) Update(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	doc, err := r.get(ctx, note.ID)
	if err != nil {
		return nil, err
	}

	doc.Title = note.Title
	doc.Content = note.Content

	if _, err := r.client.DB(r.dbName).Put(ctx, doc.DocID, doc); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return doc.toDomain(), nil
}

// Seed writes notes under their own ids when the database holds none.
func (r *CouchNoteRepository) Seed(ctx context.Context, notes []*domain.Note) error {
	existing, err := r.find(ctx, map[string]interface{}{"type": couchNoteType})
	if err != nil {
		return fmt.Errorf("failed to check existing notes: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	db := r.client.DB(r.dbName)
	for _, n := range notes {
		doc := &couchNote{
			DocID:   couchDocID(n.ID),
			Type:    couchNoteType,
			NoteID:  n.ID,
			Title:   n.Title,
			Content: n.Content,
		}
		if _, err := db.Put(ctx, doc.DocID, doc); err != nil {
			return fmt.Errorf("failed to seed note %d: %w", n.ID, err)
		}
	}

	return nil
}

func (r *CouchNoteRepository) get(ctx context.Context, id int) (*couchNote, error) {
	row := r.client.DB(r.dbName).Get(ctx, couchDocID(id))

	var doc couchNote
	if err := row.ScanDoc(&doc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	return &doc, nil
}

// find runs a Mango query and returns the matches ordered by note id, which
// is insertion order since ids are assigned monotonically.
func (r *CouchNoteRepository) find(ctx context.Context, selector map[string]interface{}) ([]*couchNote, error) {
	query := map[string]interface{}{
		"selector": selector,
		"limit":    couchFindLimit,
	}

	rows := r.client.DB(r.dbName).Find(ctx, query)
	if err := rows.Err(); err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*couchNote
	for rows.Next() {
		var doc couchNote
		if err := rows.ScanDoc(&doc); err != nil {
			continue
		}
		docs = append(docs, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].NoteID < docs[j].NoteID })
	return docs, nil
}
