package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/client/models"
	"github.com/dmitrijs2005/gophtasks/internal/client/store"
)

// ListTasks prints the active tasks of the selected client, or of the client
// given as argument, which then becomes the selection.
func (a *App) ListTasks(_ context.Context, args []string) error {
	if len(args) > 0 {
		id, err := a.resolveClient(args[0])
		if err != nil {
			return err
		}
		a.setSelected(id)
	}
	c, err := a.currentClient()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s  %s %d%%\n", c.Name, progressBar(c.Progress(), 20), c.Progress())
	tasks := activeTasks(c)
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks. Add one with: addtask <text>")
		return nil
	}
	now := a.now()
	for i, t := range tasks {
		printTask(a.out, i+1, t, now)
	}
	return nil
}

// AddTask adds a task to the selected client. The text comes from the
// arguments or a prompt; deadline and urgency are always prompted.
func (a *App) AddTask(ctx context.Context, args []string) error {
	c, err := a.currentClient()
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	if text == "" {
		if text, err = getSimpleText(a.reader, "Task", a.out); err != nil {
			return err
		}
	}
	deadline, err := a.promptDeadline("Deadline (YYYY-MM-DD HH:MM, empty for none)")
	if err != nil {
		return err
	}
	urgency, err := a.promptUrgency("Urgency (alta/media/baixa) [media]")
	if err != nil {
		return err
	}

	t, err := a.store.AddTask(ctx, c.ID, text, deadline, urgency)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %q to %s.\n", t.Text, c.Name)
	return nil
}

func (a *App) ToggleTask(ctx context.Context, args []string) error {
	v, err := a.taskArg(args, "toggle <task>")
	if err != nil {
		return err
	}
	t, err := a.store.ToggleTask(ctx, v.ID)
	if err != nil {
		return err
	}
	state := "reopened"
	if t.Completed {
		state = "completed"
	}
	fmt.Fprintf(a.out, "%q %s.\n", t.Text, state)
	return nil
}

func (a *App) ArchiveTask(ctx context.Context, args []string) error {
	v, err := a.taskArg(args, "archive <task>")
	if err != nil {
		return err
	}
	return a.store.ArchiveTask(ctx, v.ID)
}

// UnarchiveTask takes a position in the archived list or a task id.
func (a *App) UnarchiveTask(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("unarchive <archived task>")
	}
	id, err := resolveRef(args[0], viewIDs(a.store.ArchivedList()))
	if err != nil {
		return err
	}
	return a.store.UnarchiveTask(ctx, id)
}

func (a *App) EditNotes(ctx context.Context, args []string) error {
	v, err := a.taskArg(args, "notes <task>")
	if err != nil {
		return err
	}
	if v.Notes != "" {
		fmt.Fprintf(a.out, "Current notes:\n%s\n", v.Notes)
	}
	notes, err := GetMultiline(a.reader, "New notes (empty clears)", a.out)
	if err != nil {
		return err
	}
	return a.store.UpdateTaskNotes(ctx, v.ID, notes)
}

// EditTask prompts for text, urgency and deadline. Empty answers keep the
// current value; "-" clears the deadline.
func (a *App) EditTask(ctx context.Context, args []string) error {
	v, err := a.taskArg(args, "edit <task>")
	if err != nil {
		return err
	}

	var upd store.TaskUpdate
	text, err := getSimpleText(a.reader, fmt.Sprintf("Text [%s]", v.Text), a.out)
	if err != nil {
		return err
	}
	if text != "" {
		upd.Text = &text
	}

	raw, err := getSimpleText(a.reader, fmt.Sprintf("Urgency [%s]", v.Urgency), a.out)
	if err != nil {
		return err
	}
	if raw != "" {
		u, err := models.ParseUrgency(raw)
		if err != nil {
			return err
		}
		upd.Urgency = &u
	}

	raw, err = getSimpleText(a.reader, fmt.Sprintf("Deadline [%s] (- clears)", FormatDeadline(v.Deadline, a.now())), a.out)
	if err != nil {
		return err
	}
	switch raw {
	case "":
	case "-":
		none := models.Deadline("")
		upd.Deadline = &none
	default:
		d, err := models.ParseDeadline(raw)
		if err != nil {
			return err
		}
		upd.Deadline = &d
	}

	t, err := a.store.UpdateTask(ctx, v.ID, upd)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %q.\n", t.Text)
	return nil
}

func (a *App) DeleteTask(ctx context.Context, args []string) error {
	v, err := a.taskArg(args, "deltask <task>")
	if err != nil {
		return err
	}
	return a.store.DeleteTask(ctx, v.ID)
}

func (a *App) MoveTask(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("movetask <task> <position>")
	}
	v, err := a.resolveTask(args[0])
	if err != nil {
		return err
	}
	pos, err := parsePosition(args[1])
	if err != nil {
		return err
	}
	return a.store.MoveTask(ctx, v.ID, pos)
}

// ReorderTasks reorders tasks of the selected client, like ReorderClients.
func (a *App) ReorderTasks(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("reordertasks <task> <task> [task...]")
	}
	c, err := a.currentClient()
	if err != nil {
		return err
	}
	refs := taskIDs(activeTasks(c))
	ids := make([]int64, 0, len(args))
	for _, ref := range args {
		id, err := resolveRef(ref, refs)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	return a.store.ReorderTasks(ctx, c.ID, ids)
}

func (a *App) taskArg(args []string, format string) (models.TaskView, error) {
	if len(args) != 1 {
		return models.TaskView{}, usage(format)
	}
	return a.resolveTask(args[0])
}

func (a *App) promptDeadline(prompt string) (models.Deadline, error) {
	raw, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	return models.ParseDeadline(raw)
}

func (a *App) promptUrgency(prompt string) (models.Urgency, error) {
	raw, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	return models.ParseUrgency(raw)
}
