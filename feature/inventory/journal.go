package inventory

import (
	"sync"

	"section-mirror/core/observable"
	"section-mirror/core/reconcile"
	"section-mirror/feature/inventory/models"

	"go.uber.org/zap"
)

// Entry is one notification observed on the mirror.
type Entry struct {
	Seq int64 `json:"seq"`
	// Level is "section" or "item".
	Level   string `json:"level"`
	Kind    string `json:"kind"`
	Section string `json:"section"`
	Index   int    `json:"index"`
	Item    string `json:"item,omitempty"`
	Name    string `json:"name,omitempty"`
}

// Journal records every section and item notification emitted by a mirror.
// It follows sections as they are inserted and stops following them when
// they are deleted. At most limit entries are retained.
type Journal struct {
	mu      sync.Mutex
	entries []Entry
	seq     int64
	limit   int
	logger  *zap.Logger

	cancels map[*reconcile.Section[*models.Item]]func()
	cancel  func()
}

// NewJournal subscribes a journal to results. A limit of zero or less keeps
// every entry.
func NewJournal(results *reconcile.Results[*models.Item], limit int, logger *zap.Logger) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	j := &Journal{
		limit:   limit,
		logger:  logger,
		cancels: make(map[*reconcile.Section[*models.Item]]func()),
	}
	for _, sec := range results.All() {
		j.follow(sec)
	}
	j.cancel = results.Subscribe(j.onSection)
	return j
}

// Close stops recording.
func (j *Journal) Close() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cancel != nil {
		j.cancel()
		j.cancel = nil
	}
	for sec, cancel := range j.cancels {
		cancel()
		delete(j.cancels, sec)
	}
}

// Since returns the retained entries with a sequence number above seq.
func (j *Journal) Since(seq int64) []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := []Entry{}
	for _, e := range j.retained() {
		if e.Seq > seq {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the sequence number of the newest entry.
func (j *Journal) Last() int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.seq
}

// retained returns the newest limit entries. Callers hold mu.
func (j *Journal) retained() []Entry {
	if j.limit > 0 && len(j.entries) > j.limit {
		return j.entries[len(j.entries)-j.limit:]
	}
	return j.entries
}

func (j *Journal) onSection(ev observable.Event[*reconcile.Section[*models.Item]]) {
	sec := ev.Value
	switch ev.Kind {
	case observable.Insert:
		j.follow(sec)
	case observable.Delete:
		j.unfollow(sec)
	}
	j.record(Entry{Level: "section", Kind: ev.Kind.String(), Section: sec.Name(), Index: ev.Index})
}

func (j *Journal) follow(sec *reconcile.Section[*models.Item]) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, ok := j.cancels[sec]; ok {
		return
	}
	j.cancels[sec] = sec.Subscribe(func(ev observable.Event[*models.Item]) {
		e := Entry{Level: "item", Kind: ev.Kind.String(), Section: sec.Name(), Index: ev.Index}
		if ev.Value != nil {
			e.Item = ev.Value.UUID
			e.Name = ev.Value.Name
		}
		j.record(e)
	})
}

func (j *Journal) unfollow(sec *reconcile.Section[*models.Item]) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if cancel, ok := j.cancels[sec]; ok {
		cancel()
		delete(j.cancels, sec)
	}
}

func (j *Journal) record(e Entry) {
	j.mu.Lock()
	j.seq++
	e.Seq = j.seq
	j.entries = append(j.entries, e)
	// Compact once the backlog doubles so trimming stays amortized O(1).
	if j.limit > 0 && len(j.entries) > 2*j.limit {
		j.entries = append(make([]Entry, 0, 2*j.limit), j.entries[len(j.entries)-j.limit:]...)
	}
	j.mu.Unlock()

	j.logger.Debug("Mirror notification",
		zap.Int64("seq", e.Seq),
		zap.String("level", e.Level),
		zap.String("kind", e.Kind),
		zap.String("section", e.Section),
		zap.Int("index", e.Index),
		zap.String("item", e.Item),
	)
}
