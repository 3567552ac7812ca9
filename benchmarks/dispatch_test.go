package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/randalmurphal/navigation/pkg/navigation/event"
)

func noopListener(context.Context, event.Event) error { return nil }

func buildTarget(listeners int) *event.Target {
	t := event.NewTarget()
	for i := 0; i < listeners; i++ {
		t.AddListener("navigate", noopListener)
	}
	return t
}

// BenchmarkDispatch_Sequential dispatches to N listeners one at a time.
func BenchmarkDispatch_Sequential(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("listeners=%d", n), func(b *testing.B) {
			target := buildTarget(n)
			ctx := context.Background()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = target.Dispatch(ctx, event.New("navigate"))
			}
		})
	}
}

// BenchmarkDispatch_Parallel dispatches to N listeners concurrently.
func BenchmarkDispatch_Parallel(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("listeners=%d", n), func(b *testing.B) {
			target := buildTarget(n)
			ctx := context.Background()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = target.Dispatch(ctx, event.New("navigate", event.WithMode(event.ModeParallel)))
			}
		})
	}
}

// BenchmarkAddRemoveListener measures registration churn.
func BenchmarkAddRemoveListener(b *testing.B) {
	target := buildTarget(10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg := target.AddListener("navigate", noopListener)
		target.RemoveListener(reg)
	}
}
