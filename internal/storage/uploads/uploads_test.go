package uploads

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)
	fixed := time.UnixMilli(1700000000000)
	s.now = func() time.Time { return fixed }

	first, err := s.Save(context.Background(), ".PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/image-1700000000000.png", first)

	second, err := s.Save(context.Background(), ".png", strings.NewReader("more"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/image-1700000000001.png", second)

	data, err := os.ReadFile(filepath.Join(dir, "image-1700000000000.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Remove(first))
	_, err = os.Stat(filepath.Join(dir, "image-1700000000000.png"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, s.Remove(first), "missing file is not an error")
	require.NoError(t, s.Remove("https://example.com/a.png"), "remote urls are ignored")
}

func TestStore_RemoveStaysInsideDir(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "uploads")
	s, err := New(dir)
	require.NoError(t, err)

	outside := filepath.Join(parent, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))

	require.NoError(t, s.Remove("/uploads/../secret.txt"))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

func TestIsLocal(t *testing.T) {
	assert.True(t, IsLocal("/uploads/image-1.png"))
	assert.False(t, IsLocal("https://picsum.photos/1"))
}
