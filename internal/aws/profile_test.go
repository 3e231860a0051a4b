package aws

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	raw := `[default]
region = eu-west-1

[profile dev]
region = ap-south-1

[profile bare]
output = json
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	uu := map[string]struct {
		profile, e string
	}{
		"default": {profile: "default", e: "eu-west-1"},
		"named":   {profile: "dev", e: "ap-south-1"},
		"noRegion": {profile: "bare", e: ""},
		"missing": {profile: "nope", e: ""},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, profileRegion(path, u.profile))
		})
	}
}

func TestProfileRegionNoFile(t *testing.T) {
	assert.Equal(t, "", profileRegion(filepath.Join(t.TempDir(), "none"), "dev"))
}

func TestParseS3URI(t *testing.T) {
	uu := map[string]struct {
		uri         string
		bucket, key string
		err         error
	}{
		"plain":   {uri: "s3://data/people.json", bucket: "data", key: "people.json"},
		"nested":  {uri: "s3://data/a/b/c.yaml", bucket: "data", key: "a/b/c.yaml"},
		"noKey":   {uri: "s3://data", err: ErrInvalidURI},
		"scheme":  {uri: "https://data/x.json", err: ErrInvalidURI},
		"nothing": {uri: "", err: ErrInvalidURI},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			b, key, err := ParseS3URI(u.uri)
			if u.err != nil {
				assert.ErrorIs(t, err, u.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, u.bucket, b)
			assert.Equal(t, u.key, key)
		})
	}
}
