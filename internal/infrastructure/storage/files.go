// Package storage persists generated PDFs on the local filesystem under a
// year/loan-number directory layout.
package storage

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Sanitize replaces every character outside [a-zA-Z0-9._-] with an
// underscore, for use in file and directory names.
func Sanitize(s string) string {
	return reUnsafe.ReplaceAllString(s, "_")
}

// StoredPDF describes one file returned by ListRecent.
type StoredPDF struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// FileStore writes generated PDFs under root/<year>/<loanNumber>/.
type FileStore struct {
	root string
	now  func() time.Time
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{root: root, now: time.Now}, nil
}

// Save writes r to <root>/<year>/<loanNumber>/<name> and returns the full
// path. Empty loan numbers fall under an "unknown" directory.
func (s *FileStore) Save(name, loanNumber string, r io.Reader) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("deal_%d.pdf", s.now().UnixMilli())
	}
	folder := "unknown"
	if strings.TrimSpace(loanNumber) != "" {
		folder = Sanitize(loanNumber)
	}
	dir := filepath.Join(s.root, s.now().Format("2006"), folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, Sanitize(name))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write output file: %w", err)
	}
	return path, nil
}

// ListRecent walks the storage tree and returns up to limit stored PDFs,
// most recently modified first.
func (s *FileStore) ListRecent(limit int) ([]StoredPDF, error) {
	var all []StoredPDF
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".pdf") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		all = append(all, StoredPDF{
			Path:       path,
			Name:       d.Name(),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list storage dir: %w", err)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ModifiedAt.After(all[j].ModifiedAt) })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
