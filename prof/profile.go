package prof

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Lightweight wall-clock accounting for the CLI stages: key
// generation, signing and verification each record how long they took
// and the command prints one line per stage at the end. Collection is
// global so nested call sites do not need a handle threaded through.

// Entry is a single timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

var (
	mu     sync.Mutex
	record []Entry
)

// Track logs the duration since start under the given label. Use with
// defer: defer prof.Track(time.Now(), "keygen").
func Track(start time.Time, label string) {
	elapsed := time.Since(start)
	mu.Lock()
	record = append(record, Entry{Label: label, Dur: elapsed})
	mu.Unlock()
}

// SnapshotAndReset returns the collected entries and clears the store.
func SnapshotAndReset() []Entry {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Entry, len(record))
	copy(out, record)
	record = nil
	return out
}

// Stat aggregates every entry sharing a label.
type Stat struct {
	Label string
	Count int
	Total time.Duration
}

// Mean is the average duration of one occurrence.
func (s Stat) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Summarize folds entries into per-label statistics, sorted by
// descending total time.
func Summarize(entries []Entry) []Stat {
	byLabel := map[string]*Stat{}
	var order []string
	for _, e := range entries {
		s, ok := byLabel[e.Label]
		if !ok {
			s = &Stat{Label: e.Label}
			byLabel[e.Label] = s
			order = append(order, e.Label)
		}
		s.Count++
		s.Total += e.Dur
	}
	out := make([]Stat, 0, len(order))
	for _, label := range order {
		out = append(out, *byLabel[label])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

// Report writes one line per label to w: call count, total and mean
// duration.
func Report(w io.Writer, entries []Entry) {
	for _, s := range Summarize(entries) {
		fmt.Fprintf(w, "  %-12s %3dx  total %-12v mean %v\n", s.Label, s.Count, s.Total, s.Mean())
	}
}
