package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/client/models"
	"github.com/dmitrijs2005/gophtasks/internal/common"
)

func (s *Store) AddClient(ctx context.Context, name string) (models.Client, error) {
	var created models.Client
	err := s.mutate(ctx, func() (Event, error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return Event{}, ErrEmptyName
		}
		created = models.Client{ID: s.nextIDLocked(), Name: name, Tasks: []models.Task{}}
		s.clients = append(s.clients, created)
		return Event{Kind: EventClientAdded, ClientID: created.ID}, nil
	})
	return created.Clone(), err
}

func (s *Store) RenameClient(ctx context.Context, id int64, name string) error {
	return s.mutate(ctx, func() (Event, error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return Event{}, ErrEmptyName
		}
		i := s.clientIndexLocked(id)
		if i < 0 {
			return Event{}, ErrClientNotFound
		}
		s.clients[i].Name = name
		return Event{Kind: EventClientRenamed, ClientID: id}, nil
	})
}

// DeleteClient removes the client together with all of its tasks.
func (s *Store) DeleteClient(ctx context.Context, id int64) error {
	return s.mutate(ctx, func() (Event, error) {
		i := s.clientIndexLocked(id)
		if i < 0 {
			return Event{}, ErrClientNotFound
		}
		s.clients = slices.Delete(s.clients, i, i+1)
		return Event{Kind: EventClientDeleted, ClientID: id}, nil
	})
}

// ReorderClients rearranges the listed clients among the positions they
// currently occupy. Clients not listed keep their place.
func (s *Store) ReorderClients(ctx context.Context, ids []int64) error {
	return s.mutate(ctx, func() (Event, error) {
		out, err := reorder(s.clients, func(c models.Client) int64 { return c.ID }, ids, ErrClientNotFound)
		if err != nil {
			return Event{}, err
		}
		s.clients = out
		return Event{Kind: EventClientsReordered}, nil
	})
}

// MoveClient puts the client at index, clamped to the list bounds.
func (s *Store) MoveClient(ctx context.Context, id int64, index int) error {
	return s.mutate(ctx, func() (Event, error) {
		i := s.clientIndexLocked(id)
		if i < 0 {
			return Event{}, ErrClientNotFound
		}
		s.clients = move(s.clients, i, index)
		return Event{Kind: EventClientsReordered, ClientID: id}, nil
	})
}

// AddTask appends a pending task to the client. An empty urgency means
// models.UrgencyMedium.
func (s *Store) AddTask(ctx context.Context, clientID int64, text string, deadline models.Deadline, urgency models.Urgency) (models.Task, error) {
	var created models.Task
	err := s.mutate(ctx, func() (Event, error) {
		text = strings.TrimSpace(text)
		if text == "" {
			return Event{}, ErrEmptyText
		}
		u, err := normalizeUrgency(urgency)
		if err != nil {
			return Event{}, err
		}
		i := s.clientIndexLocked(clientID)
		if i < 0 {
			return Event{}, ErrClientNotFound
		}
		created = models.Task{ID: s.nextIDLocked(), Text: text, Urgency: u, Deadline: deadline}
		s.clients[i].Tasks = append(s.clients[i].Tasks, created)
		return Event{Kind: EventTaskAdded, ClientID: clientID, TaskID: created.ID}, nil
	})
	return created, err
}

// ToggleTask flips the completed flag and returns the updated task.
func (s *Store) ToggleTask(ctx context.Context, id int64) (models.Task, error) {
	return s.updateTask(ctx, id, func(t *models.Task) error {
		t.Completed = !t.Completed
		return nil
	})
}

// ArchiveTask hides a completed task from the active lists. Incomplete
// tasks are rejected with ErrTaskNotCompleted and nothing changes.
func (s *Store) ArchiveTask(ctx context.Context, id int64) error {
	_, err := s.updateTask(ctx, id, func(t *models.Task) error {
		if !t.Completed {
			return ErrTaskNotCompleted
		}
		t.Archived = true
		return nil
	})
	return err
}

func (s *Store) UnarchiveTask(ctx context.Context, id int64) error {
	_, err := s.updateTask(ctx, id, func(t *models.Task) error {
		t.Archived = false
		return nil
	})
	return err
}

func (s *Store) UpdateTaskNotes(ctx context.Context, id int64, notes string) error {
	_, err := s.updateTask(ctx, id, func(t *models.Task) error {
		t.Notes = notes
		return nil
	})
	return err
}

// TaskUpdate is a partial edit; nil fields are left untouched.
type TaskUpdate struct {
	Text      *string
	Urgency   *models.Urgency
	Deadline  *models.Deadline
	Completed *bool
	Notes     *string
}

func (s *Store) UpdateTask(ctx context.Context, id int64, upd TaskUpdate) (models.Task, error) {
	return s.updateTask(ctx, id, func(t *models.Task) error {
		next := *t
		if upd.Text != nil {
			text := strings.TrimSpace(*upd.Text)
			if text == "" {
				return ErrEmptyText
			}
			next.Text = text
		}
		if upd.Urgency != nil {
			u, err := normalizeUrgency(*upd.Urgency)
			if err != nil {
				return err
			}
			next.Urgency = u
		}
		if upd.Deadline != nil {
			next.Deadline = *upd.Deadline
		}
		if upd.Completed != nil {
			next.Completed = *upd.Completed
		}
		if upd.Notes != nil {
			next.Notes = *upd.Notes
		}
		*t = next
		return nil
	})
}

// DeleteTask removes the task from whichever client owns it.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	return s.mutate(ctx, func() (Event, error) {
		ci, ti := s.taskIndexLocked(id)
		if ci < 0 {
			return Event{}, ErrTaskNotFound
		}
		s.clients[ci].Tasks = slices.Delete(s.clients[ci].Tasks, ti, ti+1)
		return Event{Kind: EventTaskDeleted, ClientID: s.clients[ci].ID, TaskID: id}, nil
	})
}

// ReorderTasks rearranges the listed tasks of one client among the positions
// they occupy, so hidden (archived) tasks can be left out of ids.
func (s *Store) ReorderTasks(ctx context.Context, clientID int64, ids []int64) error {
	return s.mutate(ctx, func() (Event, error) {
		i := s.clientIndexLocked(clientID)
		if i < 0 {
			return Event{}, ErrClientNotFound
		}
		out, err := reorder(s.clients[i].Tasks, func(t models.Task) int64 { return t.ID }, ids, ErrTaskNotFound)
		if err != nil {
			return Event{}, err
		}
		s.clients[i].Tasks = out
		return Event{Kind: EventTasksReordered, ClientID: clientID}, nil
	})
}

// MoveTask moves a task to index inside its own client.
func (s *Store) MoveTask(ctx context.Context, id int64, index int) error {
	return s.mutate(ctx, func() (Event, error) {
		ci, ti := s.taskIndexLocked(id)
		if ci < 0 {
			return Event{}, ErrTaskNotFound
		}
		s.clients[ci].Tasks = move(s.clients[ci].Tasks, ti, index)
		return Event{Kind: EventTasksReordered, ClientID: s.clients[ci].ID, TaskID: id}, nil
	})
}

func (s *Store) updateTask(ctx context.Context, id int64, fn func(*models.Task) error) (models.Task, error) {
	var updated models.Task
	err := s.mutate(ctx, func() (Event, error) {
		ci, ti := s.taskIndexLocked(id)
		if ci < 0 {
			return Event{}, ErrTaskNotFound
		}
		t := s.clients[ci].Tasks[ti]
		if err := fn(&t); err != nil {
			return Event{}, err
		}
		s.clients[ci].Tasks[ti] = t
		updated = t
		return Event{Kind: EventTaskUpdated, ClientID: s.clients[ci].ID, TaskID: id}, nil
	})
	return updated, err
}

func normalizeUrgency(u models.Urgency) (models.Urgency, error) {
	if u == "" {
		return models.UrgencyMedium, nil
	}
	if !u.Valid() {
		return "", fmt.Errorf("%w: unknown urgency %q", common.ErrValidation, u)
	}
	return u, nil
}

func reorder[T any](items []T, idOf func(T) int64, ids []int64, notFound error) ([]T, error) {
	pos := make(map[int64]int, len(items))
	for i, it := range items {
		pos[idOf(it)] = i
	}

	seen := make(map[int64]struct{}, len(ids))
	slots := make([]int, 0, len(ids))
	for _, id := range ids {
		i, ok := pos[id]
		if !ok {
			return nil, notFound
		}
		if _, dup := seen[id]; dup {
			return nil, ErrInvalidOrder
		}
		seen[id] = struct{}{}
		slots = append(slots, i)
	}
	slices.Sort(slots)

	out := slices.Clone(items)
	for k, id := range ids {
		out[slots[k]] = items[pos[id]]
	}
	return out, nil
}

func move[T any](items []T, from, to int) []T {
	to = max(0, min(to, len(items)-1))
	it := items[from]
	items = slices.Delete(items, from, from+1)
	return slices.Insert(items, to, it)
}
