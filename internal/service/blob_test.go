package service

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobID_RoundTrip(t *testing.T) {
	id := BlobID{Table: "customer", Field: "logo", Key: map[string]interface{}{"id": 7, "code": "a/b"}}
	encoded, err := id.Encode()
	require.NoError(t, err)
	assert.NotContains(t, encoded, "=")

	decoded, err := DecodeBlobID(encoded)
	require.NoError(t, err)
	assert.Equal(t, "customer", decoded.Table)
	assert.Equal(t, "logo", decoded.Field)
	assert.Equal(t, json.Number("7"), decoded.Key["id"])
	assert.Equal(t, "a/b", decoded.Key["code"])
}

func TestDecodeBlobID_Invalid(t *testing.T) {
	for _, s := range []string{"%%%", "bm90IGpzb24", "e30"} {
		_, err := DecodeBlobID(s)
		assert.Error(t, err, s)
	}
}

func TestPathBlobLinks(t *testing.T) {
	link, err := PathBlobLinks("/blobs")(BlobID{Table: "t", Field: "f", Key: map[string]interface{}{"id": 1}})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "/blobs?id="))

	u, err := url.Parse(link)
	require.NoError(t, err)
	id, err := DecodeBlobID(u.Query().Get("id"))
	require.NoError(t, err)
	assert.Equal(t, "t", id.Table)
}
