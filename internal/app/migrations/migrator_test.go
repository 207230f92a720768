package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingFilesSortedAndFiltered(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/002_messages.sql": {Data: []byte("SELECT 1;")},
		"sql/001_init.sql":     {Data: []byte("SELECT 1;")},
		"sql/README.md":        {Data: []byte("notes")},
	}

	files, err := PendingFiles(fsys, "sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"sql/001_init.sql", "sql/002_messages.sql"}, files)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("migrations/001_init.sql"))
	assert.Equal(t, "010", Version("010_add_index.sql"))
}
