package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeedURLKeepsBodyReadable(t *testing.T) {
	payload := `{"url": "https://example.com/feed.xml", "format": "json"}`
	req, _ := http.NewRequest(http.MethodPost, "/", strings.NewReader(payload))

	assert.Equal(t, "https://example.com/feed.xml", parseFeedURL(httptest.NewRecorder(), req, 0))

	// Тело должно остаться доступным для повторного чтения
	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, string(body))
	// В том числе для повторного разбора
	req.Body = io.NopCloser(strings.NewReader(string(body)))
	assert.Equal(t, "https://example.com/feed.xml", parseFeedURL(httptest.NewRecorder(), req, 1024))
}

func TestParseFeedURLWithoutBody(t *testing.T) {
	req, _ := http.NewRequest(http.MethodPost, "/", nil)
	assert.Equal(t, "", parseFeedURL(httptest.NewRecorder(), req, 1024))
}

func TestParseFeedURLKeyIsCaseSensitive(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{
			name:    "exact key",
			payload: `{"url":"https://example.com/feed.xml"}`,
			want:    "https://example.com/feed.xml",
		},
		{
			name:    "upper case key",
			payload: `{"URL":"https://example.com/feed.xml"}`,
			want:    "",
		},
		{
			name:    "mixed case key",
			payload: `{"Url":"https://example.com/feed.xml"}`,
			want:    "",
		},
		{
			name:    "upper case key does not shadow exact key",
			payload: `{"url":"https://example.com/feed.xml","URL":""}`,
			want:    "https://example.com/feed.xml",
		},
		{
			name:    "upper case key does not shadow exact key in reverse order",
			payload: `{"URL":"","url":"https://example.com/feed.xml"}`,
			want:    "https://example.com/feed.xml",
		},
		{
			name:    "non string url",
			payload: `{"url":42}`,
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))
			assert.Equal(t, tt.want, parseFeedURL(httptest.NewRecorder(), req, 1024))
		})
	}
}

func TestParseFeedURLRespectsSizeLimit(t *testing.T) {
	payload := `{"url":"https://example.com/feed.xml"}`

	req, _ := http.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	assert.Equal(t, "", parseFeedURL(httptest.NewRecorder(), req, int64(len(payload)-1)))

	req, _ = http.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	assert.Equal(t, "https://example.com/feed.xml", parseFeedURL(httptest.NewRecorder(), req, int64(len(payload))))
}
