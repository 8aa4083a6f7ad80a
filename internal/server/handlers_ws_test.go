package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleFeed_ReceivesClassifications(t *testing.T) {
	srv := newTestServer(t, testConfig(), nil)

	httpSrv := httptest.NewServer(srv.echo)
	t.Cleanup(httpSrv.Close)

	url := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/ws/feed"
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Wait for the hub to register the client before classifying.
	require.Eventually(t, func() bool {
		return srv.hub.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Post(httpSrv.URL+"/api/classify", "application/json",
		strings.NewReader(`{"text": "I will achieve my goals", "score": 0.5}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	assert.Contains(t, string(msg), `"kind":"classification"`)
	assert.Contains(t, string(msg), "hope")
}
