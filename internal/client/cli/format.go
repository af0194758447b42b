package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/client/models"
)

const displayLayout = "02/01/2006 15:04"

// FormatDeadline renders a deadline for display relative to now.
// Past deadlines are flagged and deadlines within a day show the hours left.
func FormatDeadline(d models.Deadline, now time.Time) string {
	t, ok := d.Time()
	if !ok {
		return "Sem prazo"
	}
	s := t.Format(displayLayout)
	left := t.Sub(now)
	switch {
	case left < 0:
		s += " (ATRASADO)"
	case left < 24*time.Hour:
		s += fmt.Sprintf(" (%dh restantes)", int(math.Floor(left.Hours())))
	}
	return s
}

// UrgencyText is the display label of an urgency; unknown values pass through.
func UrgencyText(u models.Urgency) string {
	switch u {
	case models.UrgencyHigh:
		return "🔴 Alta"
	case models.UrgencyMedium:
		return "🟡 Média"
	case models.UrgencyLow:
		return "🟢 Baixa"
	}
	return string(u)
}

// IsOverdue reports whether a pending task's deadline has passed.
func IsOverdue(t models.Task, now time.Time) bool {
	return t.IsOverdue(now)
}

func progressBar(percent, width int) string {
	percent = max(0, min(100, percent))
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func checkbox(t models.Task) string {
	switch {
	case t.Archived:
		return "[a]"
	case t.Completed:
		return "[x]"
	}
	return "[ ]"
}

func printTask(w io.Writer, pos int, t models.Task, now time.Time) {
	fmt.Fprintf(w, "%3d. %s %s  %s  %s  (id %d)\n", pos, checkbox(t), t.Text, UrgencyText(t.Urgency), FormatDeadline(t.Deadline, now), t.ID)
	if t.Notes != "" {
		for _, line := range strings.Split(t.Notes, "\n") {
			fmt.Fprintf(w, "       | %s\n", line)
		}
	}
}

func printViews(w io.Writer, views []models.TaskView, now time.Time) {
	if len(views) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	for i, v := range views {
		fmt.Fprintf(w, "%3d. %s %s  %s  %s  [%s]  (id %d)\n", i+1, checkbox(v.Task), v.Text, UrgencyText(v.Urgency), FormatDeadline(v.Deadline, now), v.ClientName, v.ID)
	}
}
