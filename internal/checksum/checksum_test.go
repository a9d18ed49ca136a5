package checksum

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMD5(t *testing.T) {
	// Digest of the empty input.
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", MD5(nil))
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", MD5([]byte("abc")))
}

func TestReaderMatchesMD5(t *testing.T) {
	data := strings.Repeat("1::1::5::978300760\n", 100)
	got, err := Reader(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, MD5([]byte(data)), got)
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ml-1m.zip")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	got, err := File(path)
	require.NoError(t, err)
	assert.True(t, Equal(got, "900150983CD24FB0D6963F7D28E17F72"))
	assert.False(t, Equal(got, "c4d9eecfca2ab87c1945afe126590906"))

	_, err = File(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
