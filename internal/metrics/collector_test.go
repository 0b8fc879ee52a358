package metrics

import (
	"testing"
	"time"
)

func TestCollector_RecordAndSnapshot(t *testing.T) {
	c := NewCollector()

	c.RecordTiming(OpRetrieve, 10*time.Millisecond)
	c.RecordTiming(OpRetrieve, 30*time.Millisecond)

	snap := c.Snapshot()
	if snap.Retrieve == nil {
		t.Fatal("Retrieve snapshot is nil")
	}
	if snap.Retrieve.Count != 2 {
		t.Errorf("Count = %d, want 2", snap.Retrieve.Count)
	}
	if snap.Retrieve.MinTimeMs != 10 || snap.Retrieve.MaxTimeMs != 30 {
		t.Errorf("min/max = %d/%d, want 10/30", snap.Retrieve.MinTimeMs, snap.Retrieve.MaxTimeMs)
	}
	if snap.Retrieve.AvgTimeMs != 20 {
		t.Errorf("AvgTimeMs = %v, want 20", snap.Retrieve.AvgTimeMs)
	}

	if snap.Ask != nil {
		t.Error("Ask snapshot should be nil with no recordings")
	}
	if snap.UptimeSeconds < 0 {
		t.Errorf("UptimeSeconds = %v", snap.UptimeSeconds)
	}
}

func TestCollector_ConcurrentAccess(t *testing.T) {
	c := NewCollector()
	done := make(chan struct{})

	for i := 0; i < 4; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				c.RecordTiming(OpAsk, time.Millisecond)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	if got := c.Snapshot().Ask.Count; got != 400 {
		t.Errorf("Count = %d, want 400", got)
	}
}
