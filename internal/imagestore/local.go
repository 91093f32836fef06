package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowed = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Local writes images under Dir and returns refs of the form BaseURL/<name>.
type Local struct {
	Dir      string
	BaseURL  string
	MaxBytes int64
}

func NewLocal(dir, baseURL string, maxBytes int64) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/"), MaxBytes: maxBytes}, nil
}

// Save checks extension and sniffed content type before anything touches disk.
func (l *Local) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	want, ok := allowed[ext]
	if !ok {
		return "", ErrUnsupportedType
	}

	body, err := io.ReadAll(io.LimitReader(r, l.MaxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(body)) > l.MaxBytes {
		return "", ErrTooLarge
	}
	if got := http.DetectContentType(body); got != want {
		return "", ErrUnsupportedType
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(l.Dir, name), body, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return l.BaseURL + "/" + name, nil
}

// Delete removes the file behind ref. Refs that do not belong to this store
// are rejected rather than resolved against the filesystem.
func (l *Local) Delete(_ context.Context, ref string) error {
	if !strings.HasPrefix(ref, l.BaseURL+"/") {
		return fmt.Errorf("foreign image ref %q", ref)
	}
	name := path.Base(ref)
	if name == "." || name == "/" || strings.Contains(name, "..") {
		return fmt.Errorf("bad image ref %q", ref)
	}
	err := os.Remove(filepath.Join(l.Dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("image %s already gone: %w", name, err)
	}
	return err
}

// Handler serves stored images under BaseURL.
func (l *Local) Handler() http.Handler {
	return http.StripPrefix(l.BaseURL+"/", http.FileServer(http.Dir(l.Dir)))
}

