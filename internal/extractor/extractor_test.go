package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func articleHTML() string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html><head><title>The Test Article</title></head><body><article>`)
	sb.WriteString(`<h1>The Test Article</h1>`)
	for i := 0; i < 12; i++ {
		sb.WriteString(fmt.Sprintf(
			`<p>Paragraph %d with enough running text that the readability heuristics treat this document as genuine article content rather than navigation chrome or boilerplate markup.</p>`, i))
	}
	sb.WriteString(`</article></body></html>`)
	return sb.String()
}

func TestExtract_ReadablePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, articleHTML())
	}))
	defer srv.Close()

	e := New(Config{Timeout: 5 * time.Second}, testLogger())

	result, ok := e.Extract(context.Background(), srv.URL)
	require.True(t, ok)
	assert.Equal(t, "The Test Article", result.Title)
	assert.NotEmpty(t, result.Content)
	assert.Greater(t, result.WordCount, 100)
}

func TestExtract_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := New(Config{Timeout: 5 * time.Second}, testLogger())

	_, ok := e.Extract(context.Background(), srv.URL)
	assert.False(t, ok)
}

func TestExtract_UnreachableHost(t *testing.T) {
	e := New(Config{Timeout: 500 * time.Millisecond}, testLogger())

	_, ok := e.Extract(context.Background(), "http://127.0.0.1:1/nothing")
	assert.False(t, ok)
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<p>hello   <b>world</b></p>", "hello world"},
		{"plain text", "plain text"},
		{"<div><span></span></div>", ""},
		{"  spaced\n\nout  ", "spaced out"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripTags(tt.in))
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 1, CountWords("word"))
	assert.Equal(t, 3, CountWords("three  little words"))
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 0},
		{1, 1},
		{199, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReadingTime(tt.words), "wordCount=%d", tt.words)
	}
}
