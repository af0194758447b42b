package cli

import (
	"context"
	"fmt"
)

// Urgent lists every pending task across clients, most urgent first.
func (a *App) Urgent(_ context.Context, _ []string) error {
	printViews(a.out, a.store.UrgencyList(), a.now())
	return nil
}

func (a *App) Overdue(_ context.Context, _ []string) error {
	now := a.now()
	printViews(a.out, a.store.Overdue(now), now)
	return nil
}

func (a *App) Archived(_ context.Context, _ []string) error {
	printViews(a.out, a.store.ArchivedList(), a.now())
	return nil
}

func (a *App) Stats(_ context.Context, _ []string) error {
	st := a.store.TotalStats()
	overall := a.store.OverallProgress()
	fmt.Fprintf(a.out, "Total: %d  Completed: %d  Pending: %d\n", st.Total, st.Completed, st.Pending)
	fmt.Fprintf(a.out, "Overall %s %d%%\n", progressBar(overall, 20), overall)
	for _, c := range a.store.Clients() {
		fmt.Fprintf(a.out, "  %-24s %s %3d%%\n", c.Name, progressBar(c.Progress(), 10), c.Progress())
	}
	return nil
}
