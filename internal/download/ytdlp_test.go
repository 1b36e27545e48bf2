package download

import (
	"testing"

	"github.com/lrstanley/go-ytdlp"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestProbedFromInfo(t *testing.T) {
	info := &ytdlp.ExtractedInfo{
		Title:     strPtr("Sample"),
		Thumbnail: strPtr("https://i.ytimg.com/t.jpg"),
		Duration:  f64Ptr(125),
		Uploader:  strPtr("someone"),
		Formats: []*ytdlp.ExtractedFormat{
			{FormatID: strPtr("134"), Height: f64Ptr(360)},
			{FormatID: strPtr("sb0")}, // storyboard, no height
			nil,
		},
	}

	probed := probedFromInfo(info)

	assert.Equal(t, "Sample", probed.Title)
	assert.Equal(t, "https://i.ytimg.com/t.jpg", probed.Thumbnail)
	assert.Equal(t, 125, probed.DurationSeconds)
	assert.Equal(t, "someone", probed.Uploader)
	assert.Equal(t, []ProbeFormat{
		{FormatID: "134", Height: 360},
		{FormatID: "sb0"},
	}, probed.Formats)
}

func TestProbedFromInfo_AllOptionalFieldsAbsent(t *testing.T) {
	probed := probedFromInfo(&ytdlp.ExtractedInfo{
		Formats: []*ytdlp.ExtractedFormat{{}},
	})

	assert.Empty(t, probed.Title)
	assert.Equal(t, -1, probed.DurationSeconds)
	assert.Equal(t, []ProbeFormat{{}}, probed.Formats)
}
