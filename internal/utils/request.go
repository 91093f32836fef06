package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const maxJSONBody = 1 << 20

var ErrInvalidJSON = errors.New("invalid json")

// DecodeJSON reads a single JSON object from the request body into dst.
// Read-only fields a client echoes back (id, owner, timestamps) are ignored.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		return ErrInvalidJSON
	}
	return nil
}

// QueryInt safely parses an integer from query parameters.
// If missing or invalid, returns the provided default.
func QueryInt(q url.Values, key string, def int) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return def
	}
	return n
}

func QueryTrim(q url.Values, key string) string {
	return strings.TrimSpace(q.Get(key))
}
