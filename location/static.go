package location

import (
	"sync"
	"time"

	"skirmish/domain"
)

// StaticSource は固定値を返すLocationSourceです。実機のセンサーが
// 使えない環境 (シミュレータやテスト) での代替です。
type StaticSource struct {
	mu      sync.Mutex
	sample  domain.LocationSample
	heading float64
	valid   bool
}

func NewStaticSource(sample domain.LocationSample, heading float64) *StaticSource {
	return &StaticSource{
		sample:  sample,
		heading: heading,
		valid:   true,
	}
}

// NewEmptySource は位置が未取得状態のソースを返します。
func NewEmptySource() *StaticSource {
	return &StaticSource{}
}

func (s *StaticSource) CurrentLocation() (domain.LocationSample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return domain.LocationSample{}, false
	}
	return s.sample, true
}

func (s *StaticSource) CurrentHeading() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return 0, false
	}
	return s.heading, true
}

// Update は現在位置と方位を差し替えます。
func (s *StaticSource) Update(sample domain.LocationSample, heading float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sample.Timestamp = time.Now()
	s.sample = sample
	s.heading = heading
	s.valid = true
}
