package lms

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"scorm_rte/internal/model"
)

func newBackend(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	t.Run("empty body means no prior state", func(t *testing.T) {
		srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
			w.Write([]byte("  \n"))
		})
		p, err := NewClient(Endpoints{InitURL: srv.URL}, srv.Client()).Fetch(context.Background())
		require.NoError(t, err)
		require.Nil(t, p)
	})

	t.Run("json object", func(t *testing.T) {
		srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"learner_id":"u1","score_raw":"","total_time":120,"interactions":[{"id":"q1","latency":"PT5S"}]}`))
		})
		p, err := NewClient(Endpoints{InitURL: srv.URL}, srv.Client()).Fetch(context.Background())
		require.NoError(t, err)
		require.Equal(t, "u1", *p.LearnerID)
		require.False(t, p.ScoreRaw.Valid)
		require.Equal(t, model.FlexString("120"), *p.TotalTime)
		require.Equal(t, "q1", p.Interactions[0].ID)
	})

	t.Run("non json body is the diagnostic", func(t *testing.T) {
		srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("Access denied"))
		})
		_, err := NewClient(Endpoints{InitURL: srv.URL}, srv.Client()).Fetch(context.Background())
		require.ErrorIs(t, err, ErrMalformedState)
		require.Equal(t, "Access denied", Diagnostic(err))
	})

	t.Run("broken json", func(t *testing.T) {
		srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"learner_id":`))
		})
		_, err := NewClient(Endpoints{InitURL: srv.URL}, srv.Client()).Fetch(context.Background())
		require.Error(t, err)
		require.Equal(t, DiagParseFailed, Diagnostic(err))
	})

	t.Run("no url", func(t *testing.T) {
		p, err := NewClient(Endpoints{}, nil).Fetch(context.Background())
		require.NoError(t, err)
		require.Nil(t, p)
	})
}

func TestTransportDiagnostics(t *testing.T) {
	cases := map[int]string{
		http.StatusNotFound:            DiagNotFound,
		http.StatusInternalServerError: DiagServerError,
		http.StatusBadGateway:          "Uncaught Error.\nupstream down",
	}
	for status, want := range cases {
		srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte("upstream down"))
		})
		_, err := NewClient(Endpoints{InitURL: srv.URL}, srv.Client()).Fetch(context.Background())
		require.ErrorIs(t, err, ErrTransport)
		require.Equal(t, want, Diagnostic(err))
	}

	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewClient(Endpoints{InitURL: srv.URL}, srv.Client()).Fetch(ctx)
	require.Equal(t, DiagTimeout, Diagnostic(err))

	aborted, abort := context.WithCancel(context.Background())
	abort()
	_, err = NewClient(Endpoints{InitURL: srv.URL}, srv.Client()).Fetch(aborted)
	require.Equal(t, "Ajax request aborted.", Diagnostic(err))

	closed := httptest.NewServer(http.NotFoundHandler())
	url := closed.URL
	closed.Close()
	_, err = NewClient(Endpoints{InitURL: url}, nil).Fetch(context.Background())
	require.Equal(t, DiagNotConnected, Diagnostic(err))
}

func TestCommitAcknowledgement(t *testing.T) {
	var got map[string]any
	reply := "store complete: ok"
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(reply))
	})
	client := NewClient(Endpoints{CommitURL: srv.URL}, srv.Client())

	rec := model.NewRecord(model.Version2004)
	rec.Location = "p1"
	payload, _ := BuildCommit(rec)
	require.NoError(t, client.Commit(context.Background(), payload))
	require.Equal(t, "p1", got["location"])
	require.Equal(t, "", got["score_raw"])
	require.NotContains(t, got, "exit")
	require.NotContains(t, got, "session_time")
	require.NotContains(t, got, "activity_report")

	for _, body := range []string{"", "error: db down", " store complete"} {
		reply = body
		err := client.Commit(context.Background(), payload)
		require.ErrorIs(t, err, ErrNotAcknowledged, body)
		require.Equal(t, body, Diagnostic(err))
	}
}

func TestPassed(t *testing.T) {
	hits := 0
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		require.Equal(t, http.MethodPost, r.Method)
	})
	require.NoError(t, NewClient(Endpoints{PassedURL: srv.URL}, srv.Client()).Passed(context.Background()))
	require.Equal(t, 1, hits)

	require.NoError(t, NewClient(Endpoints{}, nil).Passed(context.Background()))
}
