package database

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sassamahha/shotenme/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A file-backed database is required here so that multiple connections share
// the same database and can actually contend for locks.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewForTest()
	cfg.DatabaseFilePath = filepath.Join(t.TempDir(), "test.db")
	cfg.DatabaseMaxRetries = 0
	cfg.DatabaseBusyTimeout = time.Millisecond
	return cfg
}

func TestConcurrentWrites(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	db, err := New(cfg)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS concurrency_test (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		value TEXT NOT NULL,
		worker_id INTEGER NOT NULL
	)`)
	require.NoError(t, err)

	const numWorkers = 20
	const writesPerWorker = 50

	var wg sync.WaitGroup
	var errorCount atomic.Int32

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := 0; i < writesPerWorker; i++ {
				_, err := db.Exec(
					"INSERT INTO concurrency_test (value, worker_id) VALUES (?, ?)",
					fmt.Sprintf("worker-%d-write-%d", workerID, i),
					workerID,
				)
				if err != nil {
					errorCount.Add(1)
				}
			}
		}(w)
	}

	wg.Wait()

	assert.Equal(t, int32(0), errorCount.Load(), "concurrent writes should not produce errors")

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM concurrency_test").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, numWorkers*writesPerWorker, count)
}
