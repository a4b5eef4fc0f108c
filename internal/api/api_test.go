package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/Guiguiprim/hubris/internal/api"
	"github.com/Guiguiprim/hubris/internal/kernel"
)

func newTestServer(t *testing.T) (*api.Server, *kernel.Kernel) {
	t.Helper()

	log, _ := test.NewNullLogger()
	k := kernel.New(2, []kernel.Priority{0, 1})

	return api.New(k, logrus.NewEntry(log)), k
}

func TestListTasksReturnsSnapshot(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/tasks")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snaps []kernel.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snaps))
	require.Len(t, snaps, 2)
}

func TestGetTaskUnknownIndexReturnsNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/tasks/99")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNotifyPostsBits(t *testing.T) {
	s, k := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/tasks/0/notify", "application/json", strings.NewReader(`{"bits": 4}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	snap := k.Snapshot()
	require.EqualValues(t, 4, snap[0].NotifSet)
}
