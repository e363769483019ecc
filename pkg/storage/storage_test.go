package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseName(t *testing.T) {
	cases := map[string]string{
		"clip.mp4":             "clip.mp4",
		"dir/clip.mp4":         "clip.mp4",
		"../../etc/passwd":     "passwd",
		`C:\Users\me\clip.mov`: "clip.mov",
		"":                     "",
		"..":                   "",
		"/":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, baseName(in), "input %q", in)
	}
}

func TestLocal_SaveSizeRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "videos")
	l := NewLocal(dir)

	loc, err := l.Save("clip.mp4", strings.NewReader("0123456789"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "clip.mp4"), loc)

	size, err := l.Size(loc)
	require.NoError(t, err)
	assert.EqualValues(t, 10, size)

	require.NoError(t, l.Remove(loc))
	_, err = os.Stat(loc)
	assert.True(t, os.IsNotExist(err))

	// already gone
	require.NoError(t, l.Remove(loc))
}

func TestLocal_SameNameOverwrites(t *testing.T) {
	l := NewLocal(t.TempDir())

	first, err := l.Save("clip.mp4", strings.NewReader("first upload"))
	require.NoError(t, err)
	second, err := l.Save("clip.mp4", strings.NewReader("2nd"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "2nd", string(data))
}

func TestLocal_TraversalStaysInside(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir)

	loc, err := l.Save("../escape.mp4", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.mp4"), loc)
}

func TestLocal_EmptyName(t *testing.T) {
	_, err := NewLocal(t.TempDir()).Save("", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestS3_Key(t *testing.T) {
	b := &S3{bucket: "b", prefix: "videos"}
	assert.Equal(t, "videos/clip.mp4", b.key("clip.mp4"))
	assert.Equal(t, "videos/clip.mp4", b.key("../x/clip.mp4"))
}
