package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"propcare/internal/service"
)

// formImage pulls the "image" part out of a multipart request, capping the
// body at max bytes plus some room for the form envelope.
func formImage(w http.ResponseWriter, r *http.Request, max int64) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, max+(1<<20))
	if err := r.ParseMultipartForm(max); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, nil, &service.ValidationError{Fields: map[string]string{"image": "image is too large"}}
		}
		return nil, nil, &service.ValidationError{Fields: map[string]string{"image": "expected a multipart form with an image"}}
	}
	f, hdr, err := r.FormFile("image")
	if err != nil {
		return nil, nil, &service.ValidationError{Fields: map[string]string{"image": "please upload an image"}}
	}
	return f, hdr, nil
}
