// Package files persists uploaded receipt attachments to the content
// directory, never overwriting: name collisions get a numeric suffix.
package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the content directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes data under desiredName inside the content directory,
// creating the directory if needed. If the name is taken, a counter is
// inserted before the extension (name_1.ext, name_2.ext, ...) until a free
// name is found. Returns the path of the written file. With an empty
// directory the desired name is always used unchanged.
func (s *Store) Save(data []byte, desiredName string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create content directory: %w", err)
	}

	name := desiredName
	for attempt := 1; ; attempt++ {
		path := filepath.Join(s.dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			name = numberedName(desiredName, attempt)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create attachment file: %w", err)
		}

		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("write attachment file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close attachment file: %w", err)
		}
		return path, nil
	}
}

// numberedName inserts "_n" before the extension: r.jpg -> r_2.jpg.
// Names without an extension get the counter appended.
func numberedName(name string, n int) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return base + "_" + strconv.Itoa(n) + ext
}
