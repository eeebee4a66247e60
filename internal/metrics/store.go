package metrics

import (
	"sync"
	"time"

	"eternal-valentine/internal/shared"
)

const defaultRecent = 50

// GenerationMetric records metadata for a single message resolution.
type GenerationMetric struct {
	Holiday          string        `json:"holiday"`
	Source           shared.Source `json:"source"`
	Model            string        `json:"model,omitempty"`
	PromptTokens     int           `json:"promptTokens"`
	CompletionTokens int           `json:"completionTokens"`
	LatencyMS        int64         `json:"latencyMs"`
	Reason           string        `json:"reason,omitempty"`
	Timestamp        time.Time     `json:"timestamp"`
}

// Summary aggregates everything recorded since the process started.
type Summary struct {
	Total            int                   `json:"total"`
	BySource         map[shared.Source]int `json:"bySource"`
	PromptTokens     int                   `json:"promptTokens"`
	CompletionTokens int                   `json:"completionTokens"`
	AvgLatencyMS     int64                 `json:"avgLatencyMs"`
	Recent           []GenerationMetric    `json:"recent"`
}

// Store keeps resolution metrics in memory. Totals are unbounded counters;
// individual entries are kept in a fixed-size ring.
type Store struct {
	mu               sync.Mutex
	ring             []GenerationMetric
	next             int
	full             bool
	total            int
	bySource         map[shared.Source]int
	promptTokens     int
	completionTokens int
	latencySumMS     int64
}

// NewStore creates a Store that keeps the last recent entries. A
// non-positive value uses the default of 50.
func NewStore(recent int) *Store {
	if recent <= 0 {
		recent = defaultRecent
	}
	return &Store{
		ring:     make([]GenerationMetric, recent),
		bySource: make(map[shared.Source]int),
	}
}

// Record saves a metric.
func (s *Store) Record(m GenerationMetric) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ring[s.next] = m
	s.next = (s.next + 1) % len(s.ring)
	if s.next == 0 {
		s.full = true
	}

	s.total++
	s.bySource[m.Source]++
	s.promptTokens += m.PromptTokens
	s.completionTokens += m.CompletionTokens
	s.latencySumMS += m.LatencyMS
}

// RecordMeta records metrics directly from shared.GenerationMeta.
func (s *Store) RecordMeta(meta shared.GenerationMeta) error {
	s.Record(MapMeta(meta))
	return nil
}

// Summary returns the aggregates and the recent entries, newest first.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{
		Total:            s.total,
		BySource:         make(map[shared.Source]int, len(s.bySource)),
		PromptTokens:     s.promptTokens,
		CompletionTokens: s.completionTokens,
	}
	for k, v := range s.bySource {
		sum.BySource[k] = v
	}
	if s.total > 0 {
		sum.AvgLatencyMS = s.latencySumMS / int64(s.total)
	}

	n := s.next
	if s.full {
		n = len(s.ring)
	}
	sum.Recent = make([]GenerationMetric, 0, n)
	for i := 1; i <= n; i++ {
		idx := (s.next - i + len(s.ring)) % len(s.ring)
		sum.Recent = append(sum.Recent, s.ring[idx])
	}
	return sum
}

// MapMeta converts shared.GenerationMeta to a GenerationMetric.
func MapMeta(meta shared.GenerationMeta) GenerationMetric {
	return GenerationMetric{
		Holiday:          meta.Holiday,
		Source:           meta.Source,
		Model:            meta.Usage.Model,
		PromptTokens:     meta.Usage.PromptTokens,
		CompletionTokens: meta.Usage.CompletionTokens,
		LatencyMS:        meta.Latency.Milliseconds(),
		Reason:           meta.Reason,
		Timestamp:        time.Now().UTC(),
	}
}
