package analysis

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserPrompt(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "full",
			req:  Request{ContentType: "document", Title: "Invoice", Description: "March bill"},
			want: `Please analyze this document titled "Invoice". Description: March bill. Provide comprehensive analysis including OCR, categorization, and insights.`,
		},
		{
			name: "defaults to image",
			req:  Request{},
			want: `Please analyze this image. Provide comprehensive analysis including OCR, categorization, and insights.`,
		},
		{
			name: "no description",
			req:  Request{ContentType: "image", Title: "Whiteboard"},
			want: `Please analyze this image titled "Whiteboard". Provide comprehensive analysis including OCR, categorization, and insights.`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserPrompt(tt.req))
		})
	}
}

func TestSystemPrompt(t *testing.T) {
	now := time.Date(2024, 2, 3, 4, 5, 6, 789_000_000, time.FixedZone("WIB", 7*3600))
	p := SystemPrompt(now)

	assert.Contains(t, p, `"processingTime": "2024-02-02T21:05:06.789Z"`)
	assert.Contains(t, p, "passport|invoice|receipt|photo|document|contract|form|certificate|other")
	assert.Contains(t, p, `"aiTags"`)
	assert.Contains(t, p, `"smartInsights"`)
	assert.NotContains(t, p, "%!")
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "2024-01-01T00:00:00.000Z", FormatTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{ErrFilePathRequired, "missing_input"},
		{ErrAPIKeyMissing, "config_missing"},
		{&StorageError{Path: "p", Err: errors.New("boom")}, "storage_failure"},
		{ErrEmptyFile, "storage_failure"},
		{&APIError{StatusCode: 500, Body: "x"}, "api_http_failure"},
		{fmt.Errorf("%w: eof", ErrInvalidResponseFormat), "invalid_response"},
		{ErrParseAnalysis, "parse_failure"},
		{errors.New("dial tcp: refused"), "request_failure"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Outcome(tt.err))
	}
}

func TestErrorMessages(t *testing.T) {
	assert.EqualError(t, &StorageError{Path: "a/b", Err: errors.New("object not found")}, "failed to download file: object not found")
	assert.EqualError(t, &APIError{StatusCode: 401, Body: "bad key"}, "remote API error: 401 - bad key")
}
