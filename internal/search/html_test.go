package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-search-assistant/internal/fetch"
	"github.com/jonathan/job-search-assistant/internal/session"
)

const jobBoardPage = `
<html><body>
	<div class="result"><h2 class="title">Backend Engineer at Globex</h2></div>
	<div class="result"><h2 class="title">Platform Engineer
		at Hooli</h2></div>
	<footer><h2 class="title-ish">Careers</h2></footer>
</body></html>`

func TestHTML_Search(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(jobBoardPage))
	}))
	defer server.Close()

	h, err := NewHTML(server.URL+"/jobs?sort=new", "h2.title", nil)
	require.NoError(t, err)

	got, err := h.Search(context.Background(), "engineer")
	require.NoError(t, err)
	assert.Equal(t, []session.Listing{"Backend Engineer at Globex", "Platform Engineer at Hooli"}, got)
	assert.Equal(t, "engineer", gotQuery)
}

func TestHTML_QueryURL(t *testing.T) {
	h, err := NewHTML("https://jobs.example.com/search?sort=new", ".title", nil)
	require.NoError(t, err)

	assert.Equal(t, "https://jobs.example.com/search?sort=new", h.queryURL(""))
	assert.Equal(t, "https://jobs.example.com/search?q=go+developer&sort=new", h.queryURL("go developer"))
}

func TestHTML_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	h, err := NewHTML(server.URL, ".title", nil)
	require.NoError(t, err)

	_, err = h.Search(context.Background(), "")
	require.Error(t, err)

	var searchErr *Error
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, "html", searchErr.Source)
	assert.Contains(t, err.Error(), "502")
}

func TestNewHTML_PlatformDefaults(t *testing.T) {
	lever, err := NewHTML("https://jobs.lever.co/acme", "", nil)
	require.NoError(t, err)
	assert.Equal(t, fetch.PlatformLever, lever.platform)
	assert.Equal(t, ".posting-title h5", lever.selector)
	assert.False(t, lever.opts.Render)

	custom, err := NewHTML("https://jobs.lever.co/acme", "a.title", nil)
	require.NoError(t, err)
	assert.Equal(t, "a.title", custom.selector)

	opts := fetch.DefaultOptions()
	workday, err := NewHTML("https://acme.wd5.myworkdayjobs.com/External", "", opts)
	require.NoError(t, err)
	assert.True(t, workday.opts.Render)
	assert.False(t, opts.Render, "caller options are not modified")
}

func TestHTML_SkipsNoise(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<nav><h2 class="title">Sign in</h2></nav><h2 class="title">SRE at Initech</h2>`))
	}))
	defer server.Close()

	h, err := NewHTML(server.URL, "h2.title", nil)
	require.NoError(t, err)

	got, err := h.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []session.Listing{"SRE at Initech"}, got)
}

func TestNewHTML_Invalid(t *testing.T) {
	_, err := NewHTML("not a url", ".title", nil)
	assert.Error(t, err)

	_, err = NewHTML("https://jobs.example.com", "", nil)
	assert.Error(t, err)
}
