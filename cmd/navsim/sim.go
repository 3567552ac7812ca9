package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/randalmurphal/navigation/pkg/navigation"
	"github.com/randalmurphal/navigation/pkg/navigation/event"
)

// simulator plays a Script against a Navigation and prints the entry list
// after every step.
type simulator struct {
	nav    *navigation.Navigation
	out    io.Writer
	logger *slog.Logger
}

func newSimulator(nav *navigation.Navigation, out io.Writer, logger *slog.Logger) *simulator {
	s := &simulator{nav: nav, out: out, logger: logger}
	nav.AddListener(navigation.EventNavigate, s.intercept)
	return s
}

// intercept installs a handler for steps that ask for one. The step travels
// in the navigation's Info.
func (s *simulator) intercept(_ context.Context, evt event.Event) error {
	ne, ok := evt.(*navigation.NavigateEvent)
	if !ok || !ne.CanIntercept {
		return nil
	}
	st, ok := ne.Info.(Step)
	if !ok || !st.intercepts() {
		return nil
	}
	_, err := ne.Intercept(func(ctx context.Context) error {
		if st.Delay > 0 {
			select {
			case <-time.After(st.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if st.Fail != "" {
			return errors.New(st.Fail)
		}
		return nil
	})
	return err
}

// Run plays every step in order. A failed step is reported and the script
// continues; Run returns the number of failed steps.
func (s *simulator) Run(ctx context.Context, sc *Script) (int, error) {
	failed := 0
	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return failed, err
		}
		res, err := s.start(ctx, st)
		if err == nil {
			_, err = res.Finished.Wait(ctx)
		}
		status := "ok"
		if err != nil {
			failed++
			status = "error: " + err.Error()
			s.logger.Debug("step failed", slog.Int("step", i+1), slog.String("op", st.Op()), slog.String("error", err.Error()))
		}
		fmt.Fprintf(s.out, "%d. %-8s %s\n", i+1, st.Op(), status)
		s.printEntries()
	}
	return failed, nil
}

func (s *simulator) start(ctx context.Context, st Step) (*navigation.Result, error) {
	switch st.Op() {
	case "navigate":
		return s.nav.Navigate(ctx, st.Navigate, navigation.NavigateOptions{State: st.State, Info: st}), nil
	case "replace":
		return s.nav.Navigate(ctx, st.Replace, navigation.NavigateOptions{
			State:   st.State,
			History: navigation.HistoryReplace,
			Info:    st,
		}), nil
	case "back":
		return s.nav.Back(ctx, navigation.TraverseOptions{Info: st}), nil
	case "forward":
		return s.nav.Forward(ctx, navigation.TraverseOptions{Info: st}), nil
	case "reload":
		return s.nav.Reload(ctx, navigation.ReloadOptions{State: st.State, Info: st}), nil
	case "traverse":
		entries := s.nav.Entries()
		idx := *st.Traverse
		if idx < 0 || idx >= len(entries) {
			return nil, fmt.Errorf("traverse: index %d out of range [0,%d)", idx, len(entries))
		}
		return s.nav.TraverseTo(ctx, entries[idx].Key(), navigation.TraverseOptions{Info: st}), nil
	case "update":
		return s.nav.UpdateCurrentEntry(ctx, navigation.UpdateOptions{State: st.State}), nil
	}
	return nil, errors.New("unknown operation")
}

func (s *simulator) printEntries() {
	printEntries(s.out, s.nav.Entries(), s.nav.CurrentIndex())
}

func printEntries(out io.Writer, entries []*navigation.Entry, current int) {
	var b strings.Builder
	for i, e := range entries {
		marker := " "
		if i == current {
			marker = "*"
		}
		fmt.Fprintf(&b, "   %s [%d] %s", marker, i, e.URL())
		if state := e.GetState(); state != nil {
			fmt.Fprintf(&b, " state=%v", state)
		}
		b.WriteByte('\n')
	}
	fmt.Fprint(out, b.String())
}
