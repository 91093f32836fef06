package imagestore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimal PNG header; enough for content sniffing.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func newStore(t *testing.T, max int64) *Local {
	t.Helper()
	s, err := NewLocal(t.TempDir(), "/uploads/", max)
	require.NoError(t, err)
	return s
}

func TestSaveAndDelete(t *testing.T) {
	s := newStore(t, 1024)
	ctx := context.Background()

	ref, err := s.Save(ctx, "leak.PNG", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	path := filepath.Join(s.Dir, filepath.Base(ref))
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, ref))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, s.Delete(ctx, ref), "second delete reports the missing file")
}

func TestSaveRejectsWrongType(t *testing.T) {
	s := newStore(t, 1024)
	_, err := s.Save(context.Background(), "notes.txt", strings.NewReader("hello"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = s.Save(context.Background(), "fake.png", strings.NewReader("plain text pretending"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSaveRejectsOversize(t *testing.T) {
	s := newStore(t, 16)
	_, err := s.Save(context.Background(), "big.png", bytes.NewReader(pngBytes))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestDeleteRejectsForeignRef(t *testing.T) {
	s := newStore(t, 1024)
	assert.Error(t, s.Delete(context.Background(), "https://cdn.example.com/x.png"))
	assert.Error(t, s.Delete(context.Background(), "/uploads/.."))
}
