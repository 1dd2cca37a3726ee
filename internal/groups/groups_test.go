package groups

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := Defaults()
	all := s.All()
	require.Len(t, all, 7)

	g, ok := s.ByShortcut('Q')
	require.True(t, ok)
	assert.Equal(t, "flat", g.Key)
	assert.Equal(t, 1, g.From)
	assert.Equal(t, 16, g.To)

	g, ok = s.ByKey("beam2")
	require.True(t, ok)
	assert.Equal(t, "u", g.Shortcut)
	assert.True(t, g.Contains(68))
	assert.False(t, g.Contains(69))

	_, ok = s.ByShortcut('z')
	assert.False(t, ok)

	// Ranges tile 1..68 without gaps.
	next := 1
	for _, g := range all {
		assert.Equal(t, next, g.From, g.Key)
		next = g.To + 1
	}
	assert.Equal(t, 69, next)
}

func TestParse(t *testing.T) {
	data := []byte(`
groups:
  - key: front
    name: Front truss
    from: 1
    to: 8
    shortcut: F
  - key: back
    from: 9
    to: 12
`)
	s, err := Parse(data)
	require.NoError(t, err)

	g, ok := s.ByShortcut('f')
	require.True(t, ok)
	assert.Equal(t, "Front truss", g.Name)

	g, ok = s.ByKey("back")
	require.True(t, ok)
	assert.Equal(t, "back", g.Name)
	assert.Empty(t, g.Shortcut)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{
			name: "inverted range",
			yaml: "groups:\n  - {key: a, from: 5, to: 2}\n",
			err:  ErrInvalidRange,
		},
		{
			name: "zero start",
			yaml: "groups:\n  - {key: a, from: 0, to: 2}\n",
			err:  ErrInvalidRange,
		},
		{
			name: "duplicate key",
			yaml: "groups:\n  - {key: a, from: 1, to: 2}\n  - {key: a, from: 3, to: 4}\n",
			err:  ErrDuplicateKey,
		},
		{
			name: "duplicate shortcut",
			yaml: "groups:\n  - {key: a, from: 1, to: 2, shortcut: q}\n  - {key: b, from: 3, to: 4, shortcut: Q}\n",
			err:  ErrDuplicateShortcut,
		},
		{
			name: "long shortcut",
			yaml: "groups:\n  - {key: a, from: 1, to: 2, shortcut: qq}\n",
			err:  ErrInvalidShortcut,
		},
		{
			name: "missing key",
			yaml: "groups:\n  - {from: 1, to: 2}\n",
			err:  ErrMissingKey,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := Parse([]byte("groups: [::"))
	assert.Error(t, err)
}

func TestLoadRoundTrip(t *testing.T) {
	data, err := Defaults().Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "groups.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults().All(), s.All())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
