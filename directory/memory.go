package directory

import (
	"sync"
	"time"

	"skirmish/domain"
)

// MemoryDirectory はDirectoryのインメモリ実装です。
type MemoryDirectory struct {
	mu      sync.RWMutex
	records map[string]domain.PlayerRecord
	clock   func() time.Time
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		records: make(map[string]domain.PlayerRecord),
		clock:   time.Now,
	}
}

// WithClock は時刻取得関数を上書きします。テスト用です。
func (d *MemoryDirectory) WithClock(clock func() time.Time) *MemoryDirectory {
	d.clock = clock
	return d
}

func (d *MemoryDirectory) Upsert(playerID string, location domain.Coordinate, heading float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records[playerID] = domain.PlayerRecord{
		PlayerID:  playerID,
		Location:  location,
		Heading:   heading,
		UpdatedAt: d.clock(),
	}
}

func (d *MemoryDirectory) Remove(playerID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.records, playerID)
}

func (d *MemoryDirectory) All() []domain.PlayerRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	records := make([]domain.PlayerRecord, 0, len(d.records))
	for _, record := range d.records {
		records = append(records, record)
	}
	return records
}

func (d *MemoryDirectory) AllStale(olderThan time.Duration) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	cutoff := d.clock().Add(-olderThan)
	var stale []string
	for id, record := range d.records {
		if record.UpdatedAt.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	return stale
}
