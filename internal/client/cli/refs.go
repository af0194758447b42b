package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gophtasks/internal/client/models"
	"github.com/dmitrijs2005/gophtasks/internal/client/store"
)

var (
	errNoClient    = errors.New("no client selected; use addclient or select")
	errNotLoggedIn = errors.New("login required")
)

// resolveRef turns a command argument into an id. Numbers from 1 to
// len(ids) are list positions; anything else is taken as an id.
func resolveRef(ref string, ids []int64) (int64, error) {
	n, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid reference %q", ref)
	}
	if n >= 1 && n <= int64(len(ids)) {
		return ids[n-1], nil
	}
	return n, nil
}

func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q", s)
	}
	return n - 1, nil
}

func clientIDs(cs []models.Client) []int64 {
	ids := make([]int64, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}

// activeTasks are the tasks the tasks command lists: everything not archived.
func activeTasks(c models.Client) []models.Task {
	out := make([]models.Task, 0, len(c.Tasks))
	for _, t := range c.Tasks {
		if !t.Archived {
			out = append(out, t)
		}
	}
	return out
}

func taskIDs(ts []models.Task) []int64 {
	ids := make([]int64, len(ts))
	for i, t := range ts {
		ids[i] = t.ID
	}
	return ids
}

func viewIDs(vs []models.TaskView) []int64 {
	ids := make([]int64, len(vs))
	for i, v := range vs {
		ids[i] = v.ID
	}
	return ids
}

func (a *App) resolveClient(ref string) (int64, error) {
	id, err := resolveRef(ref, clientIDs(a.store.Clients()))
	if err != nil {
		return 0, err
	}
	if _, err := a.store.Client(id); err != nil {
		return 0, err
	}
	return id, nil
}

func (a *App) currentClient() (models.Client, error) {
	id := a.selectedClient()
	if id == 0 {
		return models.Client{}, errNoClient
	}
	c, err := a.store.Client(id)
	if errors.Is(err, store.ErrClientNotFound) {
		return models.Client{}, errNoClient
	}
	return c, err
}

// resolveTask maps a position in the selected client's active list, or a
// task id anywhere in the store.
func (a *App) resolveTask(ref string) (models.TaskView, error) {
	var ids []int64
	if c, err := a.currentClient(); err == nil {
		ids = taskIDs(activeTasks(c))
	}
	id, err := resolveRef(ref, ids)
	if err != nil {
		return models.TaskView{}, err
	}
	return a.store.FindTask(id)
}
