package readline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryAddAndBrowse(t *testing.T) {
	h, err := NewHistory("")
	require.NoError(t, err)

	for _, line := range []string{"eins", "zwei", "zwei", "  ", "drei"} {
		require.NoError(t, h.Add(line))
	}
	assert.Equal(t, []string{"eins", "zwei", "drei"}, h.Buf.Values())
	assert.Equal(t, 3, h.Pos)

	line, ok := h.Prev()
	assert.True(t, ok)
	assert.Equal(t, "drei", line)
	h.Prev()
	line, _ = h.Prev()
	assert.Equal(t, "eins", line)

	_, ok = h.Prev()
	assert.False(t, ok, "Prev am Anfang")

	h.Next()
	h.Next()
	line, ok = h.Next()
	assert.True(t, ok)
	assert.Equal(t, "", line, "Next am Ende liefert die neue Zeile")

	_, ok = h.Next()
	assert.False(t, ok)
}

func TestHistoryLimit(t *testing.T) {
	h, err := NewHistory("")
	require.NoError(t, err)
	h.Limit = 2

	for _, line := range []string{"a", "b", "c"} {
		require.NoError(t, h.Add(line))
	}
	assert.Equal(t, []string{"b", "c"}, h.Buf.Values())
}

func TestHistoryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history")

	rl, _ := newInstance(t, "eins\rzwei\r", path)
	readAll(t, rl)
	require.NoError(t, rl.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "eins\nzwei\n", string(data))

	rl, _ = newInstance(t, "\x1b[A\r", path)
	got := readAll(t, rl)
	require.Len(t, got, 1)
	assert.Equal(t, "zwei", got[0].Line)
}

func TestHistoryDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	rl, _ := newInstance(t, "eins\r\x1b[A\r", path)
	rl.HistoryDisable()
	got := readAll(t, rl)
	require.NoError(t, rl.Close())

	require.Len(t, got, 2)
	assert.Equal(t, "eins", got[1].Line, "History im Speicher bleibt nutzbar")

	_, err := os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
