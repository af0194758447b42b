package models

import "slices"

// Client is a named container owning an ordered list of tasks.
type Client struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// Clone returns a deep copy safe to hand out of the store.
func (c Client) Clone() Client {
	c.Tasks = slices.Clone(c.Tasks)
	if c.Tasks == nil {
		c.Tasks = []Task{}
	}
	return c
}

// Progress is the integer percentage of the client's tasks that are
// completed, archived ones included. A client without tasks reports 0.
func (c Client) Progress() int {
	var done int
	for _, t := range c.Tasks {
		if t.Completed {
			done++
		}
	}
	return Percent(done, len(c.Tasks))
}

// Stats holds task counters over a set of clients.
type Stats struct {
	Total     int
	Completed int
	Pending   int
}

// Percent is round(part/total*100), 0 when total is 0.
func Percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return (part*200 + total) / (total * 2)
}

// CloneClients deep-copies a client list, never returning nil.
func CloneClients(in []Client) []Client {
	out := make([]Client, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}
