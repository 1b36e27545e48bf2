package download

import (
	"errors"
	"testing"
)

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		message  string
		expected FailureKind
	}{
		{"ERROR: Private video. Sign in if you've been granted access", FailurePrivateContent},
		{"ERROR: Video unavailable", FailureUnavailableContent},
		{"ERROR: This video requires Login to view", FailureLoginRequired},
		{"ERROR: Unable to download webpage", FailureGeneric},
	}

	for _, test := range tests {
		result := ClassifyFailure(errors.New(test.message))
		if result != test.expected {
			t.Errorf("ClassifyFailure(%q) = %v, expected %v", test.message, result, test.expected)
		}
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		message  string
		expected string
	}{
		{"ERROR: Private video", "This video is private"},
		{"ERROR: Video unavailable", "This video is unavailable"},
		{"ERROR: login required", "This content requires login"},
		{"ERROR: timeout", "Could not fetch video info: ERROR: timeout"},
	}

	for _, test := range tests {
		result := UserMessage(errors.New(test.message))
		if result != test.expected {
			t.Errorf("UserMessage(%q) = %q, expected %q", test.message, result, test.expected)
		}
	}
}
