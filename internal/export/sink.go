package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File is a finished export.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// FileSink receives finished exports. Each successful export calls Save once.
type FileSink interface {
	Save(ctx context.Context, f File) error
}

// MemorySink keeps files in memory.
type MemorySink struct {
	mu    sync.Mutex
	files []File
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Save records f.
func (s *MemorySink) Save(ctx context.Context, f File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append(s.files, f)
	return nil
}

// Files returns the saved files in order.
func (s *MemorySink) Files() []File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]File(nil), s.files...)
}

// Last returns the most recent file.
func (s *MemorySink) Last() (File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.files) == 0 {
		return File{}, false
	}
	return s.files[len(s.files)-1], true
}

// DirSink writes files into a directory. Files appear atomically: data goes to
// a temporary file first and is renamed into place.
type DirSink struct {
	dir string
}

// NewDirSink creates a sink for dir. The directory is created on first save.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

// Dir returns the target directory.
func (s *DirSink) Dir() string {
	return s.dir
}

// Path returns where Save puts a file called name, and false when name has
// no usable base name.
func (s *DirSink) Path(name string) (string, bool) {
	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", false
	}
	return filepath.Join(s.dir, base), true
}

// Save writes f to the directory under the base name of f.Name.
func (s *DirSink) Save(ctx context.Context, f File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, ok := s.Path(f.Name)
	if !ok {
		return fmt.Errorf("invalid file name %q", f.Name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(f.Data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("rename export: %w", err)
	}
	committed = true
	return nil
}
