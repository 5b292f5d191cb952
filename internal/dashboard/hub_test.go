package dashboard

import (
	"encoding/json"
	"log"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestHubBroadcastReachesClients(t *testing.T) {
	hub := NewHub(log.New(os.Stdout, "[test] ", log.LstdFlags))
	defer hub.Close()

	server := httptest.NewServer(hub)
	defer server.Close()

	first := dialHub(t, server)
	defer first.Close()
	second := dialHub(t, server)
	defer second.Close()

	// Registration happens in the upgrade handler; wait for both.
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 },
		time.Second, 10*time.Millisecond)

	hub.Broadcast(Envelope{Empty: true, Guidance: "nothing yet"})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var env Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		assert.True(t, env.Empty)
		assert.Equal(t, "nothing yet", env.Guidance)
	}
}

func TestHubRemovesDisconnectedClient(t *testing.T) {
	hub := NewHub(log.New(os.Stdout, "[test] ", log.LstdFlags))
	defer hub.Close()

	server := httptest.NewServer(hub)
	defer server.Close()

	conn := dialHub(t, server)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		time.Second, 10*time.Millisecond)

	// Broadcasting with no clients is a no-op.
	hub.Broadcast(Envelope{Loading: true})
}

func TestHubCloseRejectsNewClients(t *testing.T) {
	hub := NewHub(log.New(os.Stdout, "[test] ", log.LstdFlags))
	server := httptest.NewServer(hub)
	defer server.Close()

	hub.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		// Upgrade may succeed before the hub drops the connection; the
		// read must fail either way.
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, _, readErr := conn.ReadMessage()
		assert.Error(t, readErr)
		conn.Close()
	}
	assert.Equal(t, 0, hub.ClientCount())
}
