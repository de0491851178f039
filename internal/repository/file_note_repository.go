package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"noteful-server/internal/domain"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const (
	filePermission = 0644
	tempFilePrefix = ".notes-tmp-"
)

// FileNoteRepository keeps notes in memory and rewrites the backing file
// after every mutation. Watch enables reloading when the file is edited
// by another process.
type FileNoteRepository struct {
	mem    *memoryNoteRepository
	path   string
	codec  noteCodec
	logger zerolog.Logger

	// writeMu serializes mutate+persist and reload so the file and the
	// in-memory list never diverge.
	writeMu     sync.Mutex
	lastWritten []byte

	watcher *fsnotify.Watcher
	done    chan struct{}
}

func NewFileNoteRepository(path string, seed []*domain.Note, logger zerolog.Logger) (*FileNoteRepository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve note file path: %w", err)
	}

	codec, err := codecForPath(absPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create note directory: %w", err)
	}

	r := &FileNoteRepository{
		mem:    newMemoryNoteRepository(nil),
		path:   absPath,
		codec:  codec,
		logger: logger.With().Str("component", "file_store").Str("path", absPath).Logger(),
	}

	data, err := os.ReadFile(absPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		r.mem.replace(seed)
		if err := r.persist(); err != nil {
			return nil, err
		}
		r.logger.Info().Int("notes", len(seed)).Msg("created note file")
	case err != nil:
		return nil, fmt.Errorf("failed to read note file: %w", err)
	default:
		notes, err := codec.Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode note file: %w", err)
		}
		if err := validateNotes(notes); err != nil {
			return nil, fmt.Errorf("invalid note file: %w", err)
		}
		r.mem.replace(notes)
		r.lastWritten = data
	}

	return r, nil
}

func (r *FileNoteRepository) List(ctx context.Context, searchTerm string) ([]*domain.Note, error) {
	return r.mem.List(ctx, searchTerm)
}

func (r *FileNoteRepository) FindByID(ctx context.Context, id int) (*domain.Note, error) {
	return r.mem.FindByID(ctx, id)
}

func (r *FileNoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	prev := r.mem.snapshot()
	created, err := r.mem.Create(ctx, note)
	if err != nil {
		return nil, err
	}
	if err := r.persist(); err != nil {
		r.mem.replace(prev)
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return created, nil
}

func (r *FileNoteRepository) Update(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	prev := r.mem.snapshot()
	updated, err := r.mem.Update(ctx, note)
	if err != nil {
		return nil, err
	}
	if err := r.persist(); err != nil {
		r.mem.replace(prev)
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return updated, nil
}

// Watch starts reloading the list whenever the backing file changes on disk.
// The parent directory is watched because atomic renames replace the inode.
func (r *FileNoteRepository) Watch() error {
	if r.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch note directory: %w", err)
	}

	r.watcher = watcher
	r.done = make(chan struct{})
	go r.watchLoop()

	return nil
}

func (r *FileNoteRepository) Close() error {
	if r.watcher == nil {
		return nil
	}
	err := r.watcher.Close()
	<-r.done
	r.watcher = nil
	return err
}

func (r *FileNoteRepository) watchLoop() {
	defer close(r.done)

	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != r.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := r.reload(); err != nil {
				r.logger.Warn().Err(err).Msg("ignoring invalid note file change")
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Error().Err(err).Msg("file watcher error")
		}
	}
}

func (r *FileNoteRepository) reload() error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		return err
	}
	// Empty reads happen mid-truncate; the next write event has the content.
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(data, r.lastWritten) {
		return nil
	}

	notes, err := r.codec.Unmarshal(data)
	if err != nil {
		return err
	}
	if err := validateNotes(notes); err != nil {
		return err
	}

	r.mem.replace(notes)
	r.lastWritten = data
	r.logger.Info().Int("notes", len(notes)).Msg("reloaded note file")

	return nil
}

// persist must be called with writeMu held (or before the repository is shared).
func (r *FileNoteRepository) persist() error {
	data, err := r.codec.Marshal(r.mem.snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}
	if err := writeFileAtomic(r.path, data, filePermission); err != nil {
		return err
	}
	r.lastWritten = data
	return nil
}

// writeFileAtomic writes to a temp file in the same directory and renames it
// over filename, so readers never observe a partial document.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}
