package store

import (
	"cmp"
	"slices"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/client/models"
)

// Clients returns a deep copy of the list in display order.
func (s *Store) Clients() []models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneClients(s.clients)
}

func (s *Store) Client(id int64) (models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.clientIndexLocked(id)
	if i < 0 {
		return models.Client{}, ErrClientNotFound
	}
	return s.clients[i].Clone(), nil
}

// FindTask returns the task together with its owning client.
func (s *Store) FindTask(id int64) (models.TaskView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ci, ti := s.taskIndexLocked(id)
	if ci < 0 {
		return models.TaskView{}, ErrTaskNotFound
	}
	c := s.clients[ci]
	return models.TaskView{Task: c.Tasks[ti], ClientID: c.ID, ClientName: c.Name}, nil
}

// TotalStats counts every task, archived ones included.
func (s *Store) TotalStats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st models.Stats
	for _, c := range s.clients {
		for _, t := range c.Tasks {
			st.Total++
			if t.Completed {
				st.Completed++
			}
		}
	}
	st.Pending = st.Total - st.Completed
	return st
}

// OverallProgress is round(100*completed/total), 0 with no tasks.
func (s *Store) OverallProgress() int {
	st := s.TotalStats()
	return models.Percent(st.Completed, st.Total)
}

func (s *Store) ClientProgress(id int64) (int, error) {
	c, err := s.Client(id)
	if err != nil {
		return 0, err
	}
	return c.Progress(), nil
}

// UrgencyList returns every pending task sorted most urgent first.
func (s *Store) UrgencyList() []models.TaskView {
	views := s.collect(models.Task.Pending)
	models.SortByUrgency(views)
	return views
}

// Overdue returns pending tasks whose deadline has passed, most urgent first.
func (s *Store) Overdue(now time.Time) []models.TaskView {
	views := s.collect(func(t models.Task) bool { return t.IsOverdue(now) })
	models.SortByUrgency(views)
	return views
}

// ArchivedList returns archived tasks, newest first.
func (s *Store) ArchivedList() []models.TaskView {
	views := s.collect(func(t models.Task) bool { return t.Archived })
	slices.SortStableFunc(views, func(a, b models.TaskView) int {
		return cmp.Compare(b.ID, a.ID)
	})
	return views
}

func (s *Store) collect(keep func(models.Task) bool) []models.TaskView {
	s.mu.Lock()
	defer s.mu.Unlock()
	views := []models.TaskView{}
	for _, c := range s.clients {
		for _, t := range c.Tasks {
			if keep(t) {
				views = append(views, models.TaskView{Task: t, ClientID: c.ID, ClientName: c.Name})
			}
		}
	}
	return views
}
