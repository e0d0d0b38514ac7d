package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()

	data := Dataset{
		Headers: []string{"Day", "Time", "Subject", "Room"},
		Rows: []map[string]string{
			{"Day": "Monday", "Time": "08:00-09:30", "Subject": "Algebra", "Room": "204"},
			{"Day": "Monday", "Time": "09:45-11:15", "Subject": "Physics", "Room": "101"},
		},
	}

	out, err := exporter.Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Day,Time,Subject,Room\nMonday,08:00-09:30,Algebra,204\nMonday,09:45-11:15,Physics,101\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	assert.Error(t, err)
}
