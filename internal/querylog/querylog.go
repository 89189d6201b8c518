// Package querylog appends search interactions to daily log files.
//
// The file and line formats are a compatibility contract with the previous
// system's logs (logs/log_YYYY-MM-DD.txt, one pipe-separated line per query),
// so entries are written verbatim rather than through the structured logger.
package querylog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/campmatch/backend/internal/recommend"
)

const (
	filePrefix      = "log_"
	fileSuffix      = ".txt"
	dayLayout       = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// Logger appends interaction records to one file per calendar day.
type Logger struct {
	dir string

	mu  sync.Mutex
	now func() time.Time
}

// New creates a query logger writing under dir. The directory is created on
// first write.
func New(dir string) *Logger {
	return &Logger{dir: dir, now: time.Now}
}

// LogInteraction appends one line recording who asked what and which
// campgrounds were returned with which scores.
func (l *Logger) LogInteraction(username, query string, results []recommend.MatchResult) error {
	now := l.now()

	summaries := make([]string, 0, len(results))
	for _, r := range results {
		summaries = append(summaries, fmt.Sprintf("%s (%s) - Score: %d",
			r.Campground.ID, r.Campground.Location, r.Score))
	}

	line := fmt.Sprintf("%s | User: %s | Query: %s | Matches: %s\n",
		now.Format(timestampLayout), username, query, strings.Join(summaries, "; "))

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	path := filepath.Join(l.dir, filePrefix+now.Format(dayLayout)+fileSuffix)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening query log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("writing query log: %w", err)
	}

	return nil
}
