package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/client/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatDeadline(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		in   models.Deadline
		want string
	}{
		{"empty", "", "Sem prazo"},
		{"garbage", "soon", "Sem prazo"},
		{"past", "2025-03-09T08:30", "09/03/2025 08:30 (ATRASADO)"},
		{"within a day", "2025-03-10T17:45", "10/03/2025 17:45 (5h restantes)"},
		{"under an hour", "2025-03-10T12:30", "10/03/2025 12:30 (0h restantes)"},
		{"later", "2025-03-20T09:00", "20/03/2025 09:00"},
		{"date only", "2025-03-20", "20/03/2025 00:00"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatDeadline(tc.in, now))
		})
	}
}

func TestUrgencyText(t *testing.T) {
	assert.Equal(t, "🔴 Alta", UrgencyText(models.UrgencyHigh))
	assert.Equal(t, "🟡 Média", UrgencyText(models.UrgencyMedium))
	assert.Equal(t, "🟢 Baixa", UrgencyText(models.UrgencyLow))
	assert.Equal(t, "whatever", UrgencyText("whatever"))
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
	late := models.Task{Deadline: "2025-03-01T00:00"}
	assert.True(t, IsOverdue(late, now))

	late.Completed = true
	assert.False(t, IsOverdue(late, now))
	assert.False(t, IsOverdue(models.Task{}, now))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[..........]", progressBar(0, 10))
	assert.Equal(t, "[#####.....]", progressBar(50, 10))
	assert.Equal(t, "[##########]", progressBar(150, 10))
}

func TestPrintTask_ShowsNotes(t *testing.T) {
	var out bytes.Buffer
	printTask(&out, 1, models.Task{ID: 7, Text: "call", Urgency: models.UrgencyLow, Notes: "a\nb"}, time.Now())
	assert.Contains(t, out.String(), "[ ] call")
	assert.Contains(t, out.String(), "| a\n")
	assert.Contains(t, out.String(), "| b\n")
}
