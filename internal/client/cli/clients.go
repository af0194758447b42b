package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) ListClients(_ context.Context, _ []string) error {
	cs := a.store.Clients()
	if len(cs) == 0 {
		fmt.Fprintln(a.out, "No clients yet. Add one with: addclient <name>")
		return nil
	}
	sel := a.selectedClient()
	for i, c := range cs {
		mark := " "
		if c.ID == sel {
			mark = ">"
		}
		active := activeTasks(c)
		done := 0
		for _, t := range active {
			if t.Completed {
				done++
			}
		}
		fmt.Fprintf(a.out, "%s%2d. %-24s %s %3d%%  %d/%d  (id %d)\n", mark, i+1, c.Name, progressBar(c.Progress(), 10), c.Progress(), done, len(active), c.ID)
	}
	return nil
}

func (a *App) AddClient(ctx context.Context, args []string) error {
	name := strings.Join(args, " ")
	if name == "" {
		var err error
		if name, err = getSimpleText(a.reader, "Client name", a.out); err != nil {
			return err
		}
	}
	c, err := a.store.AddClient(ctx, name)
	if err != nil {
		return err
	}
	a.setSelected(c.ID)
	fmt.Fprintf(a.out, "Added client %q.\n", c.Name)
	return nil
}

func (a *App) RenameClient(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("rename <client> <new name>")
	}
	id, err := a.resolveClient(args[0])
	if err != nil {
		return err
	}
	return a.store.RenameClient(ctx, id, strings.Join(args[1:], " "))
}

func (a *App) DeleteClient(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("delclient <client>")
	}
	id, err := a.resolveClient(args[0])
	if err != nil {
		return err
	}
	c, err := a.store.Client(id)
	if err != nil {
		return err
	}
	if len(c.Tasks) > 0 && !GetConfirm(a.reader, fmt.Sprintf("Delete %q and its %d tasks?", c.Name, len(c.Tasks)), a.out) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	return a.store.DeleteClient(ctx, id)
}

func (a *App) SelectClient(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("select <client>")
	}
	id, err := a.resolveClient(args[0])
	if err != nil {
		return err
	}
	a.setSelected(id)
	c, _ := a.store.Client(id)
	fmt.Fprintf(a.out, "Selected %q.\n", c.Name)
	return nil
}

func (a *App) MoveClient(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("moveclient <client> <position>")
	}
	id, err := a.resolveClient(args[0])
	if err != nil {
		return err
	}
	pos, err := parsePosition(args[1])
	if err != nil {
		return err
	}
	return a.store.MoveClient(ctx, id, pos)
}

// ReorderClients puts the named clients in the given order within the slots
// they occupy; unnamed clients keep their places.
func (a *App) ReorderClients(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("reorder <client> <client> [client...]")
	}
	ids := make([]int64, 0, len(args))
	for _, ref := range args {
		id, err := a.resolveClient(ref)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	return a.store.ReorderClients(ctx, ids)
}
