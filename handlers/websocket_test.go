package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"melodex/services"
	"melodex/types"
	"melodex/websocket"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketReceivesScanProgress(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := websocket.NewHub()
	go hub.Run()
	jq := services.NewJobQueue(1, hub)
	scanHandler := NewScanHandler(jq, hub)

	r := gin.New()
	r.GET("/api/ws/scans", scanHandler.HandleWebSocketAllConnection)

	server := httptest.NewServer(r)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/ws/scans"
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	received := make(chan types.ProgressMessage, 1)
	go func() {
		var msg types.ProgressMessage
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		if err := conn.ReadJSON(&msg); err == nil {
			received <- msg
		}
	}()

	// Client registration races the first broadcast, so keep broadcasting
	// until one lands or we time out
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(3 * time.Second)

	for {
		select {
		case msg := <-received:
			assert.Equal(t, "job-1", msg.JobID)
			assert.Equal(t, "progress", msg.Type)
			assert.Equal(t, "processing", msg.Status)
			assert.Equal(t, "Artist A", msg.CurrentArtist)
			assert.InDelta(t, 50.0, msg.Progress, 0.001)
			return
		case <-ticker.C:
			hub.BroadcastProgress("job-1", "progress", "processing", "Artist A", "Scanned 1 of 2 artists", 50, 0)
		case <-deadline:
			t.Fatal("no progress message received over websocket")
		}
	}
}

func TestWebSocketJobEndpointRequiresKnownJob(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := websocket.NewHub()
	go hub.Run()
	jq := services.NewJobQueue(1, hub)
	scanHandler := NewScanHandler(jq, hub)

	r := gin.New()
	r.GET("/api/ws/scans/:jobId", scanHandler.HandleWebSocketConnection)

	server := httptest.NewServer(r)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/ws/scans/unknown"
	_, resp, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 404, resp.StatusCode)
}
