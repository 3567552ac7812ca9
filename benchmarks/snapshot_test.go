package benchmarks

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/navigation/pkg/navigation"
	"github.com/randalmurphal/navigation/pkg/navigation/snapshot"
)

func largeSnapshot(b *testing.B) *snapshot.Snapshot {
	b.Helper()
	inits := make([]navigation.EntryInit, 50)
	for i := range inits {
		inits[i] = navigation.EntryInit{
			URL: "https://bench.test/page",
			State: map[string]any{
				"scroll":  i * 10,
				"filters": []string{"a", "b", "c"},
				"title":   "A reasonably sized page title",
			},
		}
	}
	s, err := snapshot.Capture("bench", newNav(navigation.WithInitialEntries(inits, 25)).View())
	if err != nil {
		b.Fatal(err)
	}
	return s
}

// BenchmarkCapture captures a 50-entry history with map state.
func BenchmarkCapture(b *testing.B) {
	inits := make([]navigation.EntryInit, 50)
	for i := range inits {
		inits[i] = navigation.EntryInit{URL: "https://bench.test/page", State: map[string]any{"scroll": i}}
	}
	view := newNav(navigation.WithInitialEntries(inits, 25)).View()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = snapshot.Capture("bench", view)
	}
}

// BenchmarkSnapshotMarshal serializes a 50-entry snapshot.
func BenchmarkSnapshotMarshal(b *testing.B) {
	s := largeSnapshot(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Marshal()
	}
}

// BenchmarkMemoryStore_Save saves a snapshot to the memory store.
func BenchmarkMemoryStore_Save(b *testing.B) {
	store := snapshot.NewMemoryStore()
	s := largeSnapshot(b)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = snapshot.SaveSnapshot(ctx, store, s)
	}
}

// BenchmarkSQLiteStore_Save saves a snapshot to a SQLite file.
func BenchmarkSQLiteStore_Save(b *testing.B) {
	store, err := snapshot.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()
	s := largeSnapshot(b)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = snapshot.SaveSnapshot(ctx, store, s)
	}
}

// BenchmarkSQLiteStore_Load loads a stored snapshot.
func BenchmarkSQLiteStore_Load(b *testing.B) {
	store, err := snapshot.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()
	if err := snapshot.SaveSnapshot(ctx, store, largeSnapshot(b)); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = snapshot.LoadSnapshot(ctx, store, "bench")
	}
}
