package model

import (
	"testing"
	"time"
)

func TestJob_Filename(t *testing.T) {
	job := &Job{ID: "abc", Status: JobStatusDownloading}

	if name := job.Filename(); name != "" {
		t.Errorf("Expected empty filename before completion, got %q", name)
	}

	job.Status = JobStatusCompleted
	job.Result = &ResultFile{Path: "/downloads/xyz.mp4", Name: "My Video.mp4"}

	if name := job.Filename(); name != "My Video.mp4" {
		t.Errorf("Expected filename 'My Video.mp4', got %q", name)
	}
}

func TestNewHistoryEntry(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	tests := []struct {
		name     string
		job      Job
		expected HistoryEntry
	}{
		{
			name: "completed job carries filename",
			job: Job{
				ID:       "id-1",
				Title:    "Some Clip",
				Platform: "youtube",
				Status:   JobStatusCompleted,
				Progress: ProgressSnapshot{TotalStr: "12.00 MB"},
				Result:   &ResultFile{Path: "/d/f.mp4", Name: "Some Clip.mp4"},
			},
			expected: HistoryEntry{
				ID:          "id-1",
				Title:       "Some Clip",
				Platform:    "youtube",
				Status:      JobStatusCompleted,
				TotalStr:    "12.00 MB",
				Filename:    "Some Clip.mp4",
				CompletedAt: "2025-03-14 15:09:26",
			},
		},
		{
			name: "errored job carries message, no filename",
			job: Job{
				ID:       "id-2",
				Title:    "Broken",
				Platform: "tiktok",
				Status:   JobStatusError,
				Error:    "Download failed: network",
			},
			expected: HistoryEntry{
				ID:          "id-2",
				Title:       "Broken",
				Platform:    "tiktok",
				Status:      JobStatusError,
				CompletedAt: "2025-03-14 15:09:26",
				Error:       "Download failed: network",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			entry := NewHistoryEntry(&test.job, now)
			if entry != test.expected {
				t.Errorf("NewHistoryEntry() = %+v, expected %+v", entry, test.expected)
			}
		})
	}
}
