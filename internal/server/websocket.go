package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/events"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/log"
)

// Client represents a WebSocket client connection streaming run
// lifecycle events
type Client struct {
	server    *Server
	conn      *websocket.Conn
	consumer  *events.Consumer
	done      chan struct{}
	closeOnce sync.Once
}

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
	wsBufferSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  wsBufferSize,
	WriteBufferSize: wsBufferSize,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", log.Error(err))
		return
	}

	client := &Client{
		server:   s,
		conn:     conn,
		consumer: s.hub.NewFilteredConsumer(streamFilter(c)),
		done:     make(chan struct{}),
	}
	s.registerWebSocket(client)

	go client.run()
}

// streamFilter builds an event filter from the request query. With no
// query parameters every event is streamed
func streamFilter(c *gin.Context) events.EventFilter {
	var filters []events.EventFilter
	if types := c.QueryArray("type"); len(types) > 0 {
		res := make([]events.Type, len(types))
		for i, t := range types {
			res[i] = events.Type(t)
		}
		filters = append(filters, events.FilterTypes(res...))
	}
	if flowID := c.Query("flow_id"); flowID != "" {
		filters = append(filters, events.FilterFlow(api.FlowID(flowID)))
	}
	if runID := c.Query("run_id"); runID != "" {
		filters = append(filters, events.FilterRun(runID))
	}

	switch len(filters) {
	case 0:
		return nil
	case 1:
		return filters[0]
	default:
		return events.OrFilters(filters...)
	}
}

// Close terminates the connection and unregisters the client
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

func (c *Client) run() {
	defer func() {
		c.server.unregisterWebSocket(c)
		c.consumer.Close()
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	go c.drainReads()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case ev, ok := <-c.consumer.Receive():
			if !ok {
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				slog.Error("WebSocket write failed", log.Error(err))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(
				websocket.PingMessage, nil,
			); err != nil {
				return
			}
		}
	}
}

// drainReads consumes client frames so pong handlers fire; inbound
// messages carry no meaning on this stream
func (c *Client) drainReads() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.Close()
			return
		}
	}
}
