package perf

import (
	"sync"
	"testing"
	"time"
)

// TestCollector_RecordAndSnapshot verifies each kind lands in its own list.
func TestCollector_RecordAndSnapshot(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Path: "GET /members", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "GET /members", StatusCode: 200, DurationMs: 30, Timestamp: now})
	c.Record(Entry{Kind: KindAPICall, Path: "GET /admin/gym/{id}/members", StatusCode: 200, DurationMs: 8, Timestamp: now})
	c.Record(Entry{Kind: KindAPICall, Path: "GET /trainers", StatusCode: 0, DurationMs: 2, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "ExecContext", DurationMs: 5, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRecorded != 5 {
		t.Errorf("TotalRecorded = %d, want 5", snap.TotalRecorded)
	}
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].AvgMs != 20 {
		t.Errorf("SlowestPaths = %+v", snap.SlowestPaths)
	}
	if len(snap.SlowestAPICalls) != 2 || snap.SlowestAPICalls[0].Path != "GET /admin/gym/{id}/members" {
		t.Errorf("SlowestAPICalls = %+v", snap.SlowestAPICalls)
	}
	if snap.APICallErrors != 1 {
		t.Errorf("APICallErrors = %d, want 1", snap.APICallErrors)
	}
	if len(snap.SlowestQueries) != 1 {
		t.Errorf("SlowestQueries = %+v", snap.SlowestQueries)
	}
}

// TestCollector_RingBufferOverwrites verifies oldest entries are overwritten when full.
func TestCollector_RingBufferOverwrites(t *testing.T) {
	c := NewCollector(3)
	now := time.Now()

	for i := 0; i < 5; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /x", DurationMs: float64(i), Timestamp: now})
	}
	if c.TotalRecorded() != 5 {
		t.Errorf("TotalRecorded = %d, want 5", c.TotalRecorded())
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Count != 3 {
		t.Errorf("SlowestPaths = %+v, want one path seen 3 times", snap.SlowestPaths)
	}
}

func TestCollector_Percentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()
	for i := 1; i <= 100; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /p", DurationMs: float64(i), Timestamp: now})
	}

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.RequestP50Ms < 49 || snap.RequestP50Ms > 51 {
		t.Errorf("P50 = %v, want ~50", snap.RequestP50Ms)
	}
	if snap.RequestP95Ms < 94 || snap.RequestP95Ms > 96 {
		t.Errorf("P95 = %v, want ~95", snap.RequestP95Ms)
	}
	if snap.RequestP99Ms < 98 || snap.RequestP99Ms > 100 {
		t.Errorf("P99 = %v, want ~99", snap.RequestP99Ms)
	}
}

func TestCollector_SnapshotFiltersBySince(t *testing.T) {
	c := NewCollector(10)
	now := time.Now()
	c.Record(Entry{Kind: KindAPICall, Path: "GET /exercises", DurationMs: 1, Timestamp: now.Add(-time.Hour)})
	c.Record(Entry{Kind: KindAPICall, Path: "GET /exercises", DurationMs: 3, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if len(snap.SlowestAPICalls) != 1 || snap.SlowestAPICalls[0].Count != 1 {
		t.Errorf("SlowestAPICalls = %+v, want only the recent entry", snap.SlowestAPICalls)
	}
}

func TestCollector_TopNLimit(t *testing.T) {
	c := NewCollector(10)
	now := time.Now()
	for _, p := range []string{"GET /a", "GET /b", "GET /c"} {
		c.Record(Entry{Kind: KindRequest, Path: p, DurationMs: 1, Timestamp: now})
	}
	if got := len(c.Snapshot(now.Add(-time.Minute), 2).SlowestPaths); got != 2 {
		t.Errorf("len(SlowestPaths) = %d, want 2", got)
	}
}

func TestCollector_ConcurrentRecord(t *testing.T) {
	c := NewCollector(1000)
	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c.Record(Entry{Kind: KindAPICall, Path: "GET /trainers", DurationMs: 1, Timestamp: time.Now()})
			}
		}()
	}
	wg.Wait()
	if c.TotalRecorded() != 1000 {
		t.Errorf("TotalRecorded = %d, want 1000", c.TotalRecorded())
	}
}
