package service

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

// ErrBlobNotFound is returned when a blob id matches no row.
var ErrBlobNotFound = errors.New("blob not found")

// BlobID identifies one BLOB cell: a column of the row of Table whose primary
// key equals Key. Table, Field and the keys of Key are display names.
type BlobID struct {
	Table string                 `json:"table"`
	Field string                 `json:"field"`
	Key   map[string]interface{} `json:"key"`
}

// Encode returns the id as URL-safe base64 of its JSON form.
func (id BlobID) Encode() (string, error) {
	data, err := json.Marshal(id)
	if err != nil {
		return "", fmt.Errorf("failed to encode blob id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeBlobID parses an id produced by Encode. Key values keep their JSON
// number text so they render exactly as they were read.
func DecodeBlobID(s string) (BlobID, error) {
	var id BlobID
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("invalid blob id: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&id); err != nil {
		return id, fmt.Errorf("invalid blob id: %w", err)
	}
	if id.Table == "" || id.Field == "" || len(id.Key) == 0 {
		return id, fmt.Errorf("invalid blob id: table, field and key are required")
	}
	return id, nil
}

// BlobLinkCreator turns a blob id into the URL reported for a BLOB field.
type BlobLinkCreator func(id BlobID) (string, error)

// PathBlobLinks serves blob ids as <base>?id=<encoded id>.
func PathBlobLinks(base string) BlobLinkCreator {
	return func(id BlobID) (string, error) {
		encoded, err := id.Encode()
		if err != nil {
			return "", err
		}
		return base + "?id=" + url.QueryEscape(encoded), nil
	}
}
