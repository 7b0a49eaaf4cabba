package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/HarryLiGameTech/StateQ/vm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndGet(t *testing.T) {
	s := openTestStore(t)

	res := vm.ExecuteResult{
		Error: 0,
		Measurement: &vm.Measurement{
			Shots:   100,
			Entries: []vm.Entry{{Value: 0, Count: 52}, {Value: 3, Count: 48}},
		},
	}
	code := []byte{0x01, 0x00, 0x01, 0x02, 0, 0, 0, 0, 0, 0, 0, 0}

	id, err := s.Record(code, 100, res)
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}

	run, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if run.Digest != Digest(code) {
		t.Errorf("Digest = %q, want %q", run.Digest, Digest(code))
	}
	if run.Shots != 100 || run.Error != 0 {
		t.Errorf("run = %+v", run)
	}
	if run.Result == nil || len(run.Result.Entries) != 2 {
		t.Fatalf("Result = %+v, want two entries", run.Result)
	}
	if run.Result.Entries[1] != (vm.Entry{Value: 3, Count: 48}) {
		t.Errorf("entry = %+v", run.Result.Entries[1])
	}
}

func TestRecordFailedRun(t *testing.T) {
	s := openTestStore(t)

	id, err := s.Record([]byte{0xFF}, 10, vm.ExecuteResult{Error: 2})
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}
	run, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if run.Error != 2 || run.Result != nil {
		t.Errorf("run = %+v, want error 2 and nil result", run)
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get("no-such-id"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("err = %v, want ErrRunNotFound", err)
	}
}

func TestRecent(t *testing.T) {
	s := openTestStore(t)

	ids := make([]string, 3)
	for i := range ids {
		id, err := s.Record([]byte{byte(i)}, 1, vm.ExecuteResult{Error: 1})
		if err != nil {
			t.Fatal(err)
		}
		ids[i] = id
	}

	runs, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len = %d, want 2", len(runs))
	}
}

func TestDigestStable(t *testing.T) {
	a := Digest([]byte{1, 2, 3})
	b := Digest([]byte{1, 2, 3})
	c := Digest([]byte{1, 2, 4})
	if a != b {
		t.Error("digest must be deterministic")
	}
	if a == c {
		t.Error("different bytecode must digest differently")
	}
}
