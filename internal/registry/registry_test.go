package registry

import (
	"reflect"
	"testing"

	"songs-downloader/internal/model"
	"songs-downloader/internal/store"
)

type fakePersister struct {
	initial map[string]model.Job
	saves   int
	last    map[string]model.Job
	failAll bool
}

func (f *fakePersister) LoadJobs() map[string]model.Job {
	if f.initial == nil {
		return map[string]model.Job{}
	}
	return f.initial
}

func (f *fakePersister) SaveJobs(jobs map[string]model.Job) error {
	f.saves++
	f.last = make(map[string]model.Job, len(jobs))
	for id, job := range jobs {
		f.last[id] = job
	}
	if f.failAll {
		return errFailedSave
	}
	return nil
}

var errFailedSave = &persistError{}

type persistError struct{}

func (*persistError) Error() string { return "quota exceeded" }

func TestAdd_OneEntryPerKey(t *testing.T) {
	p := &fakePersister{}
	r := New(p)

	r.Add("k1", model.Job{URL: "https://a", Status: model.StatusQueued})
	r.Add("k2", model.Job{URL: "https://b", Status: model.StatusQueued})
	r.Add("k1", model.Job{URL: "https://a2", Status: model.StatusDownloading})

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snap))
	}
	if snap["k1"].URL != "https://a2" || snap["k1"].Status != model.StatusDownloading {
		t.Fatalf("collision did not keep most recent value: %+v", snap["k1"])
	}
}

func TestUpdate_AbsentKeyIsStrictNoop(t *testing.T) {
	p := &fakePersister{}
	r := New(p)
	r.Add("k1", model.Job{Status: model.StatusQueued})
	savesBefore := p.saves

	status := model.StatusComplete
	if r.Update("ghost", model.Update{Status: &status}) {
		t.Fatalf("update on absent key reported success")
	}
	if p.saves != savesBefore {
		t.Fatalf("update on absent key wrote persistence: %d -> %d", savesBefore, p.saves)
	}
	if _, ok := r.Get("ghost"); ok {
		t.Fatalf("update resurrected a removed key")
	}
}

func TestClearFinished_RemovesExactlyTerminalSuccessAndFailure(t *testing.T) {
	p := &fakePersister{}
	r := New(p)
	r.Add("q", model.Job{Status: model.StatusQueued})
	r.Add("d", model.Job{Status: model.StatusDownloading})
	r.Add("c", model.Job{Status: model.StatusComplete})
	r.Add("e", model.Job{Status: model.StatusError})
	r.Add("x", model.Job{Status: model.StatusCancelled})

	r.ClearFinished()

	snap := r.Snapshot()
	for _, want := range []string{"q", "d", "x"} {
		if _, ok := snap[want]; !ok {
			t.Fatalf("clearFinished removed %q", want)
		}
	}
	for _, gone := range []string{"c", "e"} {
		if _, ok := snap[gone]; ok {
			t.Fatalf("clearFinished retained %q", gone)
		}
	}
}

func TestStopAll_ScopedToActiveEntries(t *testing.T) {
	p := &fakePersister{}
	r := New(p)
	r.Add("q", model.Job{Status: model.StatusQueued})
	r.Add("d", model.Job{Status: model.StatusDownloading})
	r.Add("c", model.Job{Status: model.StatusComplete})
	r.Add("e", model.Job{Status: model.StatusError})

	r.StopAll()

	snap := r.Snapshot()
	if snap["q"].Status != model.StatusCancelled || snap["d"].Status != model.StatusCancelled {
		t.Fatalf("active entries not cancelled: %+v", snap)
	}
	if snap["c"].Status != model.StatusComplete || snap["e"].Status != model.StatusError {
		t.Fatalf("stopAll touched non-active entries: %+v", snap)
	}
}

func TestCancel_LeavesTerminalEntriesAlone(t *testing.T) {
	p := &fakePersister{}
	r := New(p)
	r.Add("d", model.Job{Status: model.StatusDownloading})
	r.Add("c", model.Job{Status: model.StatusComplete})

	r.Cancel("d")
	r.Cancel("c")
	r.Cancel("ghost")

	snap := r.Snapshot()
	if snap["d"].Status != model.StatusCancelled {
		t.Fatalf("active entry not cancelled: %+v", snap["d"])
	}
	if snap["c"].Status != model.StatusComplete {
		t.Fatalf("cancel rewrote a finished entry: %+v", snap["c"])
	}
}

func TestPersistFailure_DoesNotRollBackMemory(t *testing.T) {
	p := &fakePersister{failAll: true}
	r := New(p)

	r.Add("k1", model.Job{Status: model.StatusQueued})

	if _, ok := r.Get("k1"); !ok {
		t.Fatalf("failed persistence rolled back in-memory state")
	}
}

func TestRegistry_RoundTripThroughStore(t *testing.T) {
	dir := t.TempDir()
	s := store.New(dir)

	r := New(s)
	r.Add("k1", model.Job{
		RemoteID:    "r1",
		Title:       "Track",
		URL:         "https://youtube.com/watch?v=abc",
		Status:      model.StatusComplete,
		Progress:    100,
		DownloadURL: "https://host/file.mp3",
	})
	r.Add("k2", model.Job{Status: model.StatusQueued, URL: "https://b"})

	// Simulate a page-reload: a fresh registry over the same state dir.
	reloaded := New(store.New(dir))
	if !reflect.DeepEqual(r.Snapshot(), reloaded.Snapshot()) {
		t.Fatalf("reload mismatch:\nbefore: %+v\nafter:  %+v", r.Snapshot(), reloaded.Snapshot())
	}
}

func TestActiveCountAndRollup(t *testing.T) {
	p := &fakePersister{}
	r := New(p)
	r.Add("q", model.Job{Status: model.StatusQueued})
	r.Add("d", model.Job{Status: model.StatusDownloading})
	r.Add("c", model.Job{Status: model.StatusComplete})

	if got := r.ActiveCount(); got != 2 {
		t.Fatalf("active count = %d, want 2", got)
	}
	c := r.Rollup()
	if c.Total != 3 || c.Queued != 1 || c.Downloading != 1 || c.Complete != 1 {
		t.Fatalf("unexpected rollup: %+v", c)
	}
}
