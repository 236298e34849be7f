package pricing

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlTable = `
["gpt-4-turbo"]
prompt = 0.01
completion = 0.03

["gpt-3.5-turbo"]
prompt = 0.0005
completion = 0.0015
`

const yamlTable = `
gpt-4-turbo:
  prompt: 0.01
  completion: 0.03
gpt-3.5-turbo:
  prompt: 0.0005
  completion: 0.0015
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTable_TOML(t *testing.T) {
	table, err := LoadTable(writeFile(t, "prices.toml", tomlTable))
	require.NoError(t, err)

	assert.Len(t, table, 2)
	p, err := table.Lookup("gpt-4-turbo")
	require.NoError(t, err)
	assert.Equal(t, 0.01, p.Prompt)
	assert.Equal(t, 0.03, p.Completion)
}

func TestLoadTable_YAML(t *testing.T) {
	table, err := LoadTable(writeFile(t, "prices.yaml", yamlTable))
	require.NoError(t, err)

	assert.Len(t, table, 2)
	p, err := table.Lookup("gpt-3.5-turbo")
	require.NoError(t, err)
	assert.Equal(t, 0.0005, p.Prompt)
}

func TestLoadTable_UnsupportedFormat(t *testing.T) {
	_, err := LoadTable(writeFile(t, "prices.ini", "[x]\n"))
	assert.ErrorContains(t, err, "unsupported price table format")
}

func TestLoadTable_Missing(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadTable_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty table", content: ""},
		{name: "negative rate", content: "[\"m\"]\nprompt = -1.0\n"},
		{name: "malformed toml", content: "not toml ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTable(writeFile(t, "prices.toml", tt.content))
			assert.Error(t, err)
		})
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	path := writeFile(t, "prices.toml", tomlTable)

	reloaded := make(chan Table, 1)
	w, err := NewWatcher(context.Background(), path, WithOnReload(func(tb Table) {
		select {
		case reloaded <- tb:
		default:
		}
	}))
	require.NoError(t, err)
	defer w.Close()

	assert.Len(t, w.Table(), 2)

	updated := tomlTable + "\n[\"gpt-4\"]\nprompt = 0.03\ncompletion = 0.06\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case tb := <-reloaded:
		assert.Len(t, tb, 3)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload after file change")
	}

	assert.Len(t, w.Table(), 3)
}

func TestWatcher_KeepsTableOnBadReload(t *testing.T) {
	path := writeFile(t, "prices.toml", tomlTable)

	w, err := NewWatcher(context.Background(), path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("broken ["), 0o644))

	// The rejected reload must leave the previous table in effect.
	require.Eventually(t, func() bool {
		return len(w.Table()) == 2
	}, 2*time.Second, 50*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Len(t, w.Table(), 2)
}

func TestWatcher_InitialLoadError(t *testing.T) {
	_, err := NewWatcher(context.Background(), filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
