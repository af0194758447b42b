package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtasks/internal/client/syncer"
)

// Sync pushes local state right away instead of waiting for the window.
// With --replace the server copy is overwritten through PUT.
func (a *App) Sync(ctx context.Context, args []string) error {
	fn := a.sync.Push
	switch {
	case len(args) == 0:
	case len(args) == 1 && args[0] == "--replace":
		fn = a.sync.Replace
	default:
		return usage("sync [--replace]")
	}
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	err := a.scheduler.FlushWith(ctx, fn)
	if errors.Is(err, syncer.ErrSyncInProgress) {
		fmt.Fprintln(a.out, "A sync is already running.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("sync failed, changes are kept locally: %w", err)
	}
	fmt.Fprintln(a.out, "Synced.")
	return nil
}

func (a *App) Status(_ context.Context, _ []string) error {
	if u := a.auth.User(); u != nil {
		fmt.Fprintf(a.out, "User:       %s <%s>\n", u.Name, u.Email)
	} else {
		fmt.Fprintln(a.out, "User:       not logged in (local only)")
	}
	fmt.Fprintf(a.out, "Server:     %s (%s)\n", a.config.ServerURL, a.mode())

	st := a.scheduler.Status()
	fmt.Fprintf(a.out, "Sync:       %s\n", st.State)
	if st.Pending {
		fmt.Fprintln(a.out, "Pending:    changes waiting for upload")
	}
	if !st.LastSync.IsZero() {
		fmt.Fprintf(a.out, "Last sync:  %s\n", st.LastSync.Format("02/01/2006 15:04:05"))
	}
	if st.LastErr != nil {
		fmt.Fprintf(a.out, "Last error: %v\n", st.LastErr)
	}
	return nil
}
