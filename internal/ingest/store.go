package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/xpanvictor/vietrans/internal/types"
	"github.com/xpanvictor/vietrans/pkg/Logger"
)

// Store stages uploads on disk under per-request uuid keys.
type Store struct {
	dir      string
	maxBytes int64
	logger   *Logger.Logger
}

// Upload is one staged file. Release must be called when the request is done.
type Upload struct {
	ID           uuid.UUID
	OriginalName string
	SafeName     string
	Path         string
	Size         int64

	logger     *Logger.Logger
	once       sync.Once
	releaseErr error
}

func NewStore(dir string, maxBytes int64, logger *Logger.Logger) (*Store, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("upload limit must be positive, got %d", maxBytes)
	}
	if logger == nil {
		logger = Logger.NewNop()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Store{dir: dir, maxBytes: maxBytes, logger: logger}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save copies at most MaxBytes from r into a fresh file. The client name only
// contributes its extension to the on-disk key, and only when it is allowed.
// The extension comes from the raw name since sanitizing can drop the dot
// ("ồ.wav" becomes "wav").
func (s *Store) Save(name string, r io.Reader) (*Upload, error) {
	id := uuid.New()
	safe := SecureFilename(name)

	ext := Extension(name)
	if _, ok := allowedExtensions[ext]; !ok {
		ext = "bin"
	}
	path := filepath.Join(s.dir, id.String()+"."+ext)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}

	n, copyErr := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()

	if err := errors.Join(copyErr, closeErr); err != nil {
		s.discard(path)
		return nil, fmt.Errorf("write upload file: %w", err)
	}
	if n > s.maxBytes {
		s.discard(path)
		return nil, types.TooLarge(s.maxBytes)
	}

	s.logger.Debugf("stored upload %s (%q, %d bytes)", path, name, n)
	return &Upload{
		ID:           id,
		OriginalName: name,
		SafeName:     safe,
		Path:         path,
		Size:         n,
		logger:       s.logger,
	}, nil
}

func (s *Store) discard(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warnf("failed to remove partial upload %s: %v", path, err)
	}
}

// Release deletes the staged file. Only the first call does any work; later
// calls return the first result. A file that is already gone is not an error.
func (u *Upload) Release() error {
	u.once.Do(func() {
		err := os.Remove(u.Path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			u.releaseErr = types.Cleanup(u.Path, err)
			return
		}
		if u.logger != nil {
			u.logger.Debugf("released upload %s", u.Path)
		}
	})
	return u.releaseErr
}
