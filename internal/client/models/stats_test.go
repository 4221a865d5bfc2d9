package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountByStatus(t *testing.T) {
	books := []Book{
		{Status: StatusToRead},
		{Status: StatusReading},
		{Status: StatusCompleted},
		{Status: StatusCompleted},
		{Status: "unknown"},
	}

	stats := CountByStatus(books)
	require.Equal(t, 5, stats.Total)
	require.Equal(t, 1, stats.ToRead)
	require.Equal(t, 1, stats.Reading)
	require.Equal(t, 2, stats.Completed)
	require.Empty(t, stats.LastUpdated)
}

func TestCountByStatus_Empty(t *testing.T) {
	stats := CountByStatus(nil)
	require.Zero(t, stats.Total)
}

func TestStatsFromDoc_JSONNumbers(t *testing.T) {
	stats := StatsFromDoc(map[string]any{
		"total":       float64(3),
		"reading":     float64(1),
		"completed":   float64(1),
		"toRead":      float64(1),
		"lastUpdated": "2024-05-01T10:00:00Z",
	})

	require.Equal(t, 3, stats.Total)
	require.Equal(t, 1, stats.Reading)
	require.Equal(t, "2024-05-01T10:00:00Z", stats.LastUpdated)
}

func TestStatsDoc_ExcludesLastUpdated(t *testing.T) {
	doc := ReadingStats{Total: 2, LastUpdated: "stale"}.Doc()
	require.Equal(t, 2, doc["total"])
	require.NotContains(t, doc, "lastUpdated")
}
