// Package journal persists the trade history to disk. The journal is
// append-only: every submitted order becomes one TradeRecord, and PnL
// accounting replays the records in timestamp order.
package journal

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Hootan504/bingx-bot/types"
)

// Journal manages the persisted trade history.
type Journal struct {
	path    string
	records []types.TradeRecord
	mutex   sync.RWMutex
}

// New opens the journal file at path, creating the parent directory if it
// does not exist. A missing file is an empty journal.
func New(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	j := &Journal{path: path}
	if err := j.load(); err != nil {
		log.Printf("Warning: Failed to load journal: %v", err)
	}
	return j, nil
}

func (j *Journal) load() error {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read journal file: %w", err)
	}

	var records []types.TradeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse journal file: %w", err)
	}

	sort.SliceStable(records, func(a, b int) bool {
		return records[a].Timestamp < records[b].Timestamp
	})

	j.mutex.Lock()
	j.records = records
	j.mutex.Unlock()

	log.Printf("Loaded %d trade records from %s", len(records), j.path)
	return nil
}

// Append adds one trade record and rewrites the journal file.
func (j *Journal) Append(record types.TradeRecord) error {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	j.records = append(j.records, record)

	data, err := json.MarshalIndent(j.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}
	if err := os.WriteFile(j.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write journal file: %w", err)
	}
	return nil
}

// Records returns a copy of all trade records in timestamp order.
func (j *Journal) Records() []types.TradeRecord {
	j.mutex.RLock()
	defer j.mutex.RUnlock()

	out := make([]types.TradeRecord, len(j.records))
	copy(out, j.records)
	return out
}

// Filled returns the successfully filled records only, the subset PnL
// accounting consumes.
func (j *Journal) Filled() []types.TradeRecord {
	j.mutex.RLock()
	defer j.mutex.RUnlock()

	var out []types.TradeRecord
	for _, r := range j.records {
		if r.OK {
			out = append(out, r)
		}
	}
	return out
}
