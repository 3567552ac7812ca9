package benchmarks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/randalmurphal/navigation/pkg/navigation"
	"github.com/randalmurphal/navigation/pkg/navigation/event"
)

func newNav(opts ...navigation.Option) *navigation.Navigation {
	base := []navigation.Option{
		navigation.WithBaseURL("https://bench.test/"),
		navigation.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return navigation.New(append(base, opts...)...)
}

func seededNav(n int) *navigation.Navigation {
	inits := make([]navigation.EntryInit, n)
	for i := range inits {
		inits[i] = navigation.EntryInit{URL: fmt.Sprintf("https://bench.test/%d", i)}
	}
	return newNav(navigation.WithInitialEntries(inits, n-1))
}

func mustWait(b *testing.B, res *navigation.Result) {
	if _, err := res.Wait(context.Background()); err != nil {
		b.Fatal(err)
	}
}

// BenchmarkNavigate_Push pushes onto a growing history.
func BenchmarkNavigate_Push(b *testing.B) {
	nav := newNav()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mustWait(b, nav.Navigate(ctx, fmt.Sprintf("/p/%d", i), navigation.NavigateOptions{}))
	}
}

// BenchmarkNavigate_Replace replaces the current entry.
func BenchmarkNavigate_Replace(b *testing.B) {
	nav := seededNav(10)
	ctx := context.Background()
	opts := navigation.NavigateOptions{History: navigation.HistoryReplace}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mustWait(b, nav.Navigate(ctx, "/replaced", opts))
	}
}

// BenchmarkNavigate_WithListeners pushes with listeners on every engine event.
func BenchmarkNavigate_WithListeners(b *testing.B) {
	nav := newNav()
	for _, typ := range []string{
		navigation.EventNavigate,
		navigation.EventCurrentEntryChange,
		navigation.EventEntriesChange,
		navigation.EventNavigateSuccess,
	} {
		for j := 0; j < 5; j++ {
			nav.AddListener(typ, noopListener)
		}
	}
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mustWait(b, nav.Navigate(ctx, fmt.Sprintf("/p/%d", i), navigation.NavigateOptions{}))
	}
}

// BenchmarkNavigate_Intercepted pushes with a no-op intercepting handler.
func BenchmarkNavigate_Intercepted(b *testing.B) {
	nav := newNav()
	nav.AddListener(navigation.EventNavigate, func(_ context.Context, evt event.Event) error {
		_, err := evt.(*navigation.NavigateEvent).Intercept(func(context.Context) error { return nil })
		return err
	})
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mustWait(b, nav.Navigate(ctx, fmt.Sprintf("/p/%d", i), navigation.NavigateOptions{}))
	}
}

// BenchmarkTraverse alternates back and forward over a 100-entry history.
func BenchmarkTraverse(b *testing.B) {
	nav := seededNav(100)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%2 == 0 {
			mustWait(b, nav.Back(ctx, navigation.TraverseOptions{}))
		} else {
			mustWait(b, nav.Forward(ctx, navigation.TraverseOptions{}))
		}
	}
}

// BenchmarkDiffEntries diffs two 100-entry lists differing in the tail.
func BenchmarkDiffEntries(b *testing.B) {
	before := seededNav(100).Entries()
	after := append(append([]*navigation.Entry{}, before[:90]...), seededNav(10).Entries()...)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = navigation.DiffEntries(before, after)
	}
}
