package querylog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campmatch/backend/internal/recommend"
	"github.com/campmatch/backend/internal/storage/models"
)

func TestLogInteraction(t *testing.T) {
	dir := t.TempDir()
	l := New(filepath.Join(dir, "logs"))
	fixed := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	results := []recommend.MatchResult{
		{Campground: models.Campground{ID: "C1", Location: "Kerala"}, Score: 6},
		{Campground: models.Campground{ID: "C2", Location: "Kerala"}, Score: 4},
	}

	require.NoError(t, l.LogInteraction("alice", "tent in kerala", results))
	require.NoError(t, l.LogInteraction("bob", "cabin with wi-fi", nil))

	data, err := os.ReadFile(filepath.Join(dir, "logs", "log_2024-06-01.txt"))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "2024-06-01 10:30:00 | User: alice | Query: tent in kerala | Matches: C1 (Kerala) - Score: 6; C2 (Kerala) - Score: 4\n")
	assert.Contains(t, content, "| User: bob | Query: cabin with wi-fi | Matches: \n")
}

func TestLogInteraction_OneFilePerDay(t *testing.T) {
	dir := t.TempDir()
	l := New(dir)

	day1 := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2024, 6, 2, 0, 1, 0, 0, time.UTC)

	l.now = func() time.Time { return day1 }
	require.NoError(t, l.LogInteraction("alice", "first", nil))

	l.now = func() time.Time { return day2 }
	require.NoError(t, l.LogInteraction("alice", "second", nil))

	for _, name := range []string{"log_2024-06-01.txt", "log_2024-06-02.txt"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}
