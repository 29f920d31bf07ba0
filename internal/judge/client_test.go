package judge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFetchRatingHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user.rating", r.URL.Path)
		assert.Equal(t, "tourist", r.URL.Query().Get("handle"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","result":[
			{"contestId":100,"contestName":"Div2 Round","rank":50,"oldRating":1400,"newRating":1450,"ratingUpdateTimeSeconds":1700000000}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil, nil)
	entries, err := client.FetchRatingHistory(context.Background(), "tourist")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 100, entries[0].ContestID)
	assert.Equal(t, "Div2 Round", entries[0].ContestName)
	assert.Equal(t, 1400, entries[0].OldRating)
	assert.Equal(t, 1450, entries[0].NewRating)
	assert.Equal(t, int64(1700000000), entries[0].RatingUpdateTimeSeconds)
}

func TestClientFetchSubmissions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user.status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","result":[
			{"id":42,"creationTimeSeconds":1700000100,"verdict":"OK",
			 "problem":{"contestId":100,"index":"B","name":"Two Buttons","tags":["dfs","graphs"],"rating":1300}}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil, nil)
	entries, err := client.FetchSubmissions(context.Background(), "tourist")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(42), entries[0].ID)
	assert.Equal(t, "B", entries[0].Problem.Index)
	assert.Equal(t, []string{"dfs", "graphs"}, entries[0].Problem.Tags)
	require.NotNil(t, entries[0].Problem.Rating)
	assert.Equal(t, 1300, *entries[0].Problem.Rating)
}

func TestClientFetchEmptyHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","result":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil, nil)
	entries, err := client.FetchRatingHistory(context.Background(), "newcomer")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClientFailedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"FAILED","comment":"handle: User with handle ghost not found"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil, nil)
	entries, err := client.FetchRatingHistory(context.Background(), "ghost")
	require.Error(t, err)
	assert.Nil(t, entries)
	assert.Contains(t, err.Error(), "FAILED")
}

func TestClientNonSuccessStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil, nil)
	_, err := client.FetchSubmissions(context.Background(), "tourist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

type fetchRecorderStub struct {
	endpoints []string
	successes []bool
}

func (r *fetchRecorderStub) RecordJudgeFetch(endpoint string, success bool, _ time.Duration) {
	r.endpoints = append(r.endpoints, endpoint)
	r.successes = append(r.successes, success)
}

func TestClientRecordsFetchOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/user.rating" {
			_, _ = w.Write([]byte(`{"status":"OK","result":[]}`))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	recorder := &fetchRecorderStub{}
	client := NewClient(srv.URL, time.Second, nil, recorder)

	_, err := client.FetchRatingHistory(context.Background(), "tourist")
	require.NoError(t, err)
	_, err = client.FetchSubmissions(context.Background(), "tourist")
	require.Error(t, err)

	require.Equal(t, []string{"user.rating", "user.status"}, recorder.endpoints)
	assert.Equal(t, []bool{true, false}, recorder.successes)
}
