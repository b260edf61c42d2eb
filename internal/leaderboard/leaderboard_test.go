package leaderboard

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

// memBackend is an in-memory Backend used to exercise the store's failure paths.
type memBackend struct {
	mu      sync.Mutex
	data    map[string][]byte
	loadErr error
	saveErr error
	saves   int
}

func newMemBackend() *memBackend {
	return &memBackend{data: map[string][]byte{}}
}

func (m *memBackend) key(obj, prop string) string { return obj + "/" + prop }

func (m *memBackend) ObjectPropExists(obj, prop string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[m.key(obj, prop)]
	return ok
}

func (m *memBackend) LoadObjectProp(obj, prop string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data[m.key(obj, prop)], nil
}

func (m *memBackend) SaveObjectProp(obj, prop string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[m.key(obj, prop)] = data
	return nil
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name     string
		existing []Record
		add      Record
		want     []Record
	}{
		{
			name:     "Middle of full board",
			existing: []Record{{"A", 50}, {"B", 30}, {"C", 10}},
			add:      Record{"new", 40},
			want:     []Record{{"A", 50}, {"new", 40}, {"B", 30}},
		},
		{
			name:     "Below full board",
			existing: []Record{{"A", 50}, {"B", 30}, {"C", 10}},
			add:      Record{"new", 5},
			want:     []Record{{"A", 50}, {"B", 30}, {"C", 10}},
		},
		{
			name:     "Tie keeps existing first",
			existing: []Record{{"A", 50}, {"B", 30}},
			add:      Record{"new", 30},
			want:     []Record{{"A", 50}, {"B", 30}, {"new", 30}},
		},
		{
			name: "Empty board",
			add:  Record{"solo", 0},
			want: []Record{{"solo", 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Insert(tt.existing, tt.add)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expected %v, got %v", tt.want, got)
					break
				}
			}
		})
	}
}

func TestInsertDoesNotModifyInput(t *testing.T) {
	existing := []Record{{"A", 10}, {"B", 5}, {"C", 1}}
	Insert(existing, Record{"D", 100})
	if existing[0].Name != "A" || existing[2].Name != "C" {
		t.Errorf("Expected input untouched, got %v", existing)
	}
}

func TestStoreSubmitPersists(t *testing.T) {
	backend := newMemBackend()
	store := NewStore(backend)

	for _, r := range []Record{{"A", 50}, {"B", 30}, {"C", 10}} {
		if _, err := store.Submit(r); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	snap, err := store.Submit(Record{"new", 40})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if snap.HighScore != 50 {
		t.Errorf("Expected high score 50, got %d", snap.HighScore)
	}
	if len(snap.Scores) != 3 || snap.Scores[1].Name != "new" {
		t.Errorf("Expected new entry second, got %v", snap.Scores)
	}

	// A fresh store over the same backend sees the saved document.
	reopened := NewStore(backend).Load()
	if reopened.HighScore != 50 || len(reopened.Scores) != 3 {
		t.Errorf("Expected persisted leaderboard, got %+v", reopened)
	}
}

func TestStoreLoadFailSoft(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*memBackend)
	}{
		{"Missing", func(*memBackend) {}},
		{"Malformed", func(m *memBackend) { m.data["leaderboard/scores"] = []byte("scores: [oops") }},
		{"Read error", func(m *memBackend) {
			m.data["leaderboard/scores"] = []byte("high_score: 9")
			m.loadErr = errors.New("disk gone")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newMemBackend()
			tt.setup(backend)
			snap := NewStore(backend).Load()
			if snap.HighScore != 0 || len(snap.Scores) != 0 {
				t.Errorf("Expected empty leaderboard, got %+v", snap)
			}
		})
	}
}

func TestStoreNormalizesDocument(t *testing.T) {
	backend := newMemBackend()
	backend.data["leaderboard/scores"] = []byte(`
scores:
  - {name: low, score: 1}
  - {name: bad, score: -4}
  - {name: top, score: 90}
  - {name: mid, score: 20}
  - {name: extra, score: 2}
high_score: 12
`)

	snap := NewStore(backend).Load()
	if len(snap.Scores) != 3 || snap.Scores[0].Name != "top" || snap.Scores[2].Name != "extra" {
		t.Errorf("Expected sorted and truncated scores, got %v", snap.Scores)
	}
	if snap.HighScore != 90 {
		t.Errorf("Expected high score raised to best entry, got %d", snap.HighScore)
	}
}

func TestStoreSaveErrorKeepsMemory(t *testing.T) {
	backend := newMemBackend()
	backend.saveErr = errors.New("read-only")
	store := NewStore(backend)

	snap, err := store.Submit(Record{"A", 7})
	if err == nil {
		t.Error("Expected save error to be reported")
	}
	if snap.HighScore != 7 || len(snap.Scores) != 1 {
		t.Errorf("Expected snapshot to include the entry, got %+v", snap)
	}
}

func TestStoreMemoryOnly(t *testing.T) {
	store := NewStore(nil)
	store.Submit(Record{"A", 3})
	store.Submit(Record{"B", 8})

	snap := store.Load()
	if snap.HighScore != 8 || snap.Scores[0].Name != "B" {
		t.Errorf("Expected in-memory leaderboard, got %+v", snap)
	}

	// Callers get copies.
	snap.Scores[0].Name = "changed"
	if store.Load().Scores[0].Name != "B" {
		t.Error("Expected Load to return a copy")
	}
}

func TestStoreConcurrentSubmit(t *testing.T) {
	backend := newMemBackend()
	store := NewStore(backend)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Submit(Record{Name: fmt.Sprintf("p%d", i), Score: i})
		}(i)
	}
	wg.Wait()

	snap := store.Load()
	if snap.HighScore != 19 {
		t.Errorf("Expected high score 19, got %d", snap.HighScore)
	}
	want := []int{19, 18, 17}
	for i, r := range snap.Scores {
		if r.Score != want[i] {
			t.Errorf("Expected scores %v, got %v", want, snap.Scores)
			break
		}
	}
	if backend.saves != 20 {
		t.Errorf("Expected 20 saves, got %d", backend.saves)
	}
}

func TestOpenWithGdata(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", home)

	store := Open("fruitcatcher_test")
	if store.backend == nil {
		t.Skip("gdata storage not available in this environment")
	}

	if _, err := store.Submit(Record{"A", 12}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	again := Open("fruitcatcher_test").Load()
	if again.HighScore != 12 || len(again.Scores) != 1 || again.Scores[0].Name != "A" {
		t.Errorf("Expected leaderboard to survive reopen, got %+v", again)
	}
}
