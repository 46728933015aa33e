// -----------------------------------------------------------------------
// Live dashboard - broadcasts run progress over WebSocket so a browser
// tab can watch a run without tailing the log
// -----------------------------------------------------------------------

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Local dashboard only
	},
}

// ProgressEvent is one dashboard update
type ProgressEvent struct {
	Type      string    `json:"type"` // run_started, suite_started, suite_finished, run_finished
	RunID     string    `json:"run_id,omitempty"`
	Suite     string    `json:"suite,omitempty"`
	Passed    int       `json:"passed,omitempty"`
	Failed    int       `json:"failed,omitempty"`
	Skipped   int       `json:"skipped,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// LiveHub fans progress events out to connected dashboard clients
type LiveHub struct {
	logger  arbor.ILogger
	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
	server  *http.Server
}

// NewLiveHub creates a hub serving the dashboard on the given port
func NewLiveHub(port int, logger arbor.ILogger) *LiveHub {
	h := &LiveHub{
		logger:  logger,
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handleIndex)
	mux.HandleFunc("/ws", h.handleWS)
	h.server = &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	return h
}

// Start serves the dashboard in the background
func (h *LiveHub) Start() {
	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Warn().Err(err).Msg("Dashboard server stopped")
		}
	}()
	h.logger.Info().Str("addr", h.server.Addr).Msg("Live dashboard listening")
}

// Stop shuts the dashboard down
func (h *LiveHub) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	h.server.Shutdown(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]*sync.Mutex)
}

// Broadcast sends an event to every connected client. Write failures
// drop the client.
func (h *LiveHub) Broadcast(event ProgressEvent) {
	event.Timestamp = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to marshal progress event")
		return
	}

	h.mu.RLock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(h.clients))
	for conn, mu := range h.clients {
		conns[conn] = mu
	}
	h.mu.RUnlock()

	for conn, mu := range conns {
		mu.Lock()
		err := conn.WriteMessage(websocket.TextMessage, data)
		mu.Unlock()
		if err != nil {
			h.removeClient(conn)
		}
	}
}

func (h *LiveHub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	h.mu.Unlock()
	h.logger.Debug().Str("remote", r.RemoteAddr).Msg("Dashboard client connected")

	// Drain reads so close frames are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.removeClient(conn)
				return
			}
		}
	}()
}

func (h *LiveHub) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

const dashboardPage = `<!DOCTYPE html>
<html>
<head><title>Iudex Live</title>
<style>
body { font-family: monospace; background: #111; color: #ddd; margin: 2em; }
.passed { color: #3fb950; } .failed { color: #f85149; }
</style>
</head>
<body>
<h2>Iudex run progress</h2>
<ul id="events"></ul>
<script>
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (msg) => {
  const e = JSON.parse(msg.data);
  const li = document.createElement("li");
  li.textContent = e.timestamp + " " + e.type + " " + (e.suite || e.run_id || "") +
    (e.type.endsWith("finished") ? " passed=" + (e.passed||0) + " failed=" + (e.failed||0) : "");
  if (e.failed > 0) li.className = "failed";
  else if (e.type.endsWith("finished")) li.className = "passed";
  document.getElementById("events").appendChild(li);
};
</script>
</body>
</html>
`

func (h *LiveHub) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, dashboardPage)
}
