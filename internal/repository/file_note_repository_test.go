package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"noteful-server/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileNoteRepository_SeedsMissingFile(t *testing.T) {
	for _, name := range []string{"notes.json", "notes.yaml", "notes.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			repo, err := NewFileNoteRepository(path, domain.SeedNotes(), zerolog.Nop())
			require.NoError(t, err)

			_, err = os.Stat(path)
			require.NoError(t, err)

			notes, err := repo.List(context.Background(), "")
			require.NoError(t, err)
			assert.Len(t, notes, 10)
		})
	}
}

func TestFileNoteRepository_PersistsAcrossReopen(t *testing.T) {
	for _, name := range []string{"notes.json", "notes.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			ctx := context.Background()

			repo, err := NewFileNoteRepository(path, domain.SeedNotes(), zerolog.Nop())
			require.NoError(t, err)

			created, err := repo.Create(ctx, &domain.Note{Title: "New Note", Content: "Come on man"})
			require.NoError(t, err)
			_, err = repo.Update(ctx, &domain.Note{ID: 1004, Title: "New Title", Content: "Something witty."})
			require.NoError(t, err)

			reopened, err := NewFileNoteRepository(path, nil, zerolog.Nop())
			require.NoError(t, err)

			got, err := reopened.FindByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, created, got)

			updated, err := reopened.FindByID(ctx, 1004)
			require.NoError(t, err)
			assert.Equal(t, "New Title", updated.Title)

			all, err := reopened.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 11)
		})
	}
}

func TestFileNoteRepository_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	repo, err := NewFileNoteRepository(path, domain.SeedNotes(), zerolog.Nop())
	require.NoError(t, err)

	notes, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestFileNoteRepository_RejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileNoteRepository(filepath.Join(dir, "notes.txt"), nil, zerolog.Nop())
	assert.Error(t, err)

	corrupt := filepath.Join(dir, "notes.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0644))
	_, err = NewFileNoteRepository(corrupt, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestFileNoteRepository_RejectsInvalidNotes(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "duplicate id", data: `[{"id":1000,"title":"a"},{"id":1000,"title":"b"}]`},
		{name: "blank title", data: `[{"id":1000,"title":"   ","content":"x"}]`},
		{name: "missing title", data: `[{"id":1000,"content":"x"}]`},
		{name: "null entry", data: `[null]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "notes.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))

			_, err := NewFileNoteRepository(path, domain.SeedNotes(), zerolog.Nop())
			assert.Error(t, err)
		})
	}
}

func TestFileNoteRepository_ReloadKeepsNotesOnInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.yaml")
	ctx := context.Background()

	repo, err := NewFileNoteRepository(path, domain.SeedNotes(), zerolog.Nop())
	require.NoError(t, err)

	invalid := []byte("- id: 2000\n  title: first\n- id: 2000\n  title: second\n")
	require.NoError(t, os.WriteFile(path, invalid, 0644))

	assert.Error(t, repo.reload())

	notes, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, notes, 10)

	_, err = repo.FindByID(ctx, 2000)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestFileNoteRepository_FailedWriteLeavesNotesUnchanged(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	ctx := context.Background()

	repo, err := NewFileNoteRepository(filepath.Join(dir, "notes.json"), domain.SeedNotes(), zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(dir))

	_, err = repo.Create(ctx, &domain.Note{Title: "never saved"})
	require.Error(t, err)

	_, err = repo.Update(ctx, &domain.Note{ID: 1004, Title: "never saved"})
	require.Error(t, err)

	notes, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, notes, 10)

	note, err := repo.FindByID(ctx, 1004)
	require.NoError(t, err)
	assert.Equal(t, domain.SeedNotes()[4].Title, note.Title)

	ghosts, err := repo.List(ctx, "never saved")
	require.NoError(t, err)
	assert.Empty(t, ghosts)
}

func TestFileNoteRepository_WatchReloadsExternalEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.yaml")
	ctx := context.Background()

	repo, err := NewFileNoteRepository(path, domain.SeedNotes(), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, repo.Watch())
	t.Cleanup(func() { repo.Close() })

	edited := []byte("- id: 2000\n  title: edited elsewhere\n  content: by hand\n")
	require.NoError(t, os.WriteFile(path, edited, 0644))

	require.Eventually(t, func() bool {
		note, err := repo.FindByID(ctx, 2000)
		return err == nil && note.Title == "edited elsewhere"
	}, 3*time.Second, 20*time.Millisecond)

	notes, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	created, err := repo.Create(ctx, &domain.Note{Title: "after reload"})
	require.NoError(t, err)
	assert.Equal(t, 2001, created.ID)
}

func TestFileNoteRepository_CloseWithoutWatch(t *testing.T) {
	repo, err := NewFileNoteRepository(filepath.Join(t.TempDir(), "notes.json"), nil, zerolog.Nop())
	require.NoError(t, err)
	assert.NoError(t, repo.Close())
}
