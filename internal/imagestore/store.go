package imagestore

import (
	"context"
	"errors"
	"io"
)

var (
	ErrUnsupportedType = errors.New("images only (jpeg, jpg, png)")
	ErrTooLarge        = errors.New("image exceeds size limit")
)

// Store keeps uploaded images and hands back a stable public reference.
type Store interface {
	Save(ctx context.Context, filename string, r io.Reader) (ref string, err error)
	Delete(ctx context.Context, ref string) error
}
