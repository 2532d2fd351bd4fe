package local

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/maxviazov/squad-manager-service/internal/repository"
)

type fileBackend struct {
	dir string
	mu  sync.RWMutex
}

// NewFile returns a store keeping <collection>.json files under dir. The directory is
// created if missing.
func NewFile(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("store path is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &Store{b: &fileBackend{dir: dir}}, nil
}

func (f *fileBackend) path(c repository.Collection) string {
	return filepath.Join(f.dir, string(c)+".json")
}

func (f *fileBackend) read(c repository.Collection) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	raw, err := os.ReadFile(f.path(c))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c, err)
	}
	return raw, nil
}

// write replaces each file through a temp file and rename so a reader never sees a
// partial document. A batch is not atomic across files.
func (f *fileBackend) write(batch map[repository.Collection][]byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for c, raw := range batch {
		tmp, err := os.CreateTemp(f.dir, string(c)+".*.tmp")
		if err != nil {
			return fmt.Errorf("write %s: %w", c, err)
		}
		if _, err := tmp.Write(raw); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return fmt.Errorf("write %s: %w", c, err)
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmp.Name())
			return fmt.Errorf("write %s: %w", c, err)
		}
		if err := os.Rename(tmp.Name(), f.path(c)); err != nil {
			os.Remove(tmp.Name())
			return fmt.Errorf("write %s: %w", c, err)
		}
	}
	return nil
}

func (f *fileBackend) ping() error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", f.dir)
	}
	return nil
}
