package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meditrack/meditrack-api/pkg/config"
)

func dial(t *testing.T, srv *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var f frame
	require.NoError(t, json.Unmarshal(raw, &f))
	return f
}

func TestServer_JoinAndReceiveEvents(t *testing.T) {
	hub := NewHub(nil, nil)
	srv := httptest.NewServer(NewServer(hub, config.RealtimeConfig{SendBuffer: 8}, nil))
	defer srv.Close()

	conn := dial(t, srv, nil)
	require.NoError(t, conn.WriteJSON(ClientMessage{Event: ActionJoinCity, City: "Mumbai"}))

	ack := readFrame(t, conn)
	assert.Equal(t, EventJoinedCity, ack.Event)
	assert.Equal(t, 1, hub.RoomCount("Mumbai"))

	require.NoError(t, hub.Emit(context.Background(), "Mumbai", EventAlertCreated, AlertCreated{HospitalName: "KEM Hospital", Message: "ICU low", Severity: "critical"}))
	got := readFrame(t, conn)
	assert.Equal(t, EventAlertCreated, got.Event)
	assert.JSONEq(t, `{"alert_id":"","hospital_name":"KEM Hospital","message":"ICU low","severity":"critical"}`, string(got.Data))

	require.NoError(t, conn.WriteJSON(ClientMessage{Event: ActionLeaveCity, City: "Mumbai"}))
	left := readFrame(t, conn)
	assert.Equal(t, EventLeftCity, left.Event)
	assert.Equal(t, 0, hub.RoomCount("Mumbai"))
}

func TestServer_DisconnectUnregisters(t *testing.T) {
	hub := NewHub(nil, nil)
	srv := httptest.NewServer(NewServer(hub, config.RealtimeConfig{}, nil))
	defer srv.Close()

	conn := dial(t, srv, nil)
	require.NoError(t, conn.WriteJSON(ClientMessage{Event: ActionJoinCity, City: "Pune"}))
	readFrame(t, conn)
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.RoomCount("Pune"))
}

func TestServer_RejectsUnknownOrigin(t *testing.T) {
	hub := NewHub(nil, nil)
	srv := httptest.NewServer(NewServer(hub, config.RealtimeConfig{}, nil, "http://localhost:5173"))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://evil.test"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn := dial(t, srv, http.Header{"Origin": []string{"http://localhost:5173"}})
	require.NoError(t, conn.WriteJSON(ClientMessage{Event: ActionJoinCity, City: "Mumbai"}))
	assert.Equal(t, EventJoinedCity, readFrame(t, conn).Event)
}
