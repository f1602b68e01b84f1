package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iho/ledgerstat/internal/domain"
)

// FileRepository implements usecase.LedgerRepository over a snapshot file.
// The file is re-read when its modification time changes.
type FileRepository struct {
	path string

	mu      sync.RWMutex
	ledger  *domain.Ledger
	modTime time.Time
}

// NewFileRepository creates a new FileRepository.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// LoadLedger returns the part of the snapshot owned by userID.
func (r *FileRepository) LoadLedger(ctx context.Context, userID uuid.UUID) (*domain.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l, err := r.load()
	if err != nil {
		return nil, err
	}
	if _, ok := l.User(userID); !ok {
		return nil, domain.ErrUserNotFound
	}
	return l.ForUser(userID), nil
}

// Ledger returns the whole snapshot.
func (r *FileRepository) Ledger() (*domain.Ledger, error) {
	return r.load()
}

func (r *FileRepository) load() (*domain.Ledger, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrLedgerNotFound, r.path)
		}
		return nil, err
	}

	r.mu.RLock()
	if r.ledger != nil && r.modTime.Equal(info.ModTime()) {
		l := r.ledger
		r.mu.RUnlock()
		return l, nil
	}
	r.mu.RUnlock()

	l, err := ReadFile(r.path)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.ledger = l
	r.modTime = info.ModTime()
	r.mu.Unlock()

	return l, nil
}

// ReadFile decodes the snapshot stored at path.
func ReadFile(path string) (*domain.Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrLedgerNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// WriteFile encodes the ledger to path, replacing any existing file.
func WriteFile(path string, l *domain.Ledger) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, l); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
