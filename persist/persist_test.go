package persist

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/keepalive-tabs/types"
)

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "__keepalive_tabs_list__:default", StorageKey(""))
	assert.Equal(t, "__keepalive_tabs_list__:admin", StorageKey("admin"))
}

func TestEncodeOrder(t *testing.T) {
	assert.Equal(t, `["/a","/counter/1"]`, EncodeOrder([]string{"/a", "/counter/1"}))
	assert.Equal(t, `[]`, EncodeOrder(nil))
}

func TestDecodeOrder(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
		wantErr  bool
	}{
		{name: "empty input", raw: "", expected: []string{}},
		{name: "strings", raw: `["/About","/"]`, expected: []string{"/About", "/"}},
		{name: "mixed scalars are stringified", raw: `["/a", 12, true, null, 1.5]`, expected: []string{"/a", "12", "true", "null", "1.5"}},
		{name: "nested values", raw: `[{"x":1}]`, expected: []string{`{"x":1}`}},
		{name: "object is rejected", raw: `{"a":1}`, wantErr: true},
		{name: "string is rejected", raw: `"/a"`, wantErr: true},
		{name: "garbage is rejected", raw: `[not json`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeOrder(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func storageContract(t *testing.T, s types.Storage) {
	t.Helper()

	_, ok, err := s.Read("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Write(StorageKey("ns"), `["/a"]`))
	require.NoError(t, s.Write(StorageKey("ns"), `["/b"]`))
	require.NoError(t, s.Write(StorageKey("other"), `[]`))

	v, ok, err := s.Read(StorageKey("ns"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["/b"]`, v)

	v, ok, err = s.Read(StorageKey("other"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, v)
}

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage()
	storageContract(t, s)

	s.Delete(StorageKey("ns"))
	_, ok, err := s.Read(StorageKey("ns"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStorage_Memory(t *testing.T) {
	storageContract(t, NewMemoryFileStorage())
}

func TestFileStorage_Subdirectory(t *testing.T) {
	fs := memfs.New()
	s := NewFileStorage(fs, "sessions/")
	storageContract(t, s)

	entries, err := fs.ReadDir("sessions")
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files are renamed away")
}

func TestFileStorage_Local(t *testing.T) {
	s := NewLocalFileStorage(t.TempDir())
	storageContract(t, s)
	assert.NotNil(t, s.Filesystem())
}
