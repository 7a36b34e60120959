package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-search-assistant/internal/session"
)

type fakeLabelStore struct {
	labels []string
	err    error

	gotQuery string
	gotLimit int
}

func (f *fakeLabelStore) SearchListingLabels(_ context.Context, query string, limit int) ([]string, error) {
	f.gotQuery = query
	f.gotLimit = limit
	return f.labels, f.err
}

func TestPostgres_Search(t *testing.T) {
	store := &fakeLabelStore{labels: []string{"SRE at Initech", "Go Developer"}}
	p := NewPostgres(store, 7)

	got, err := p.Search(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, []session.Listing{"SRE at Initech", "Go Developer"}, got)
	assert.Equal(t, "go", store.gotQuery)
	assert.Equal(t, 7, store.gotLimit)
}

func TestPostgres_Error(t *testing.T) {
	boom := errors.New("connection refused")
	p := NewPostgres(&fakeLabelStore{err: boom}, 10)

	_, err := p.Search(context.Background(), "")
	require.Error(t, err)

	var searchErr *Error
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, "postgres", searchErr.Source)
	assert.ErrorIs(t, err, boom)
}

func TestPostgres_EmptyResult(t *testing.T) {
	p := NewPostgres(&fakeLabelStore{}, 10)

	got, err := p.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
