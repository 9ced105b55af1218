package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/krakenctl/internal/logging"
	"github.com/muurk/krakenctl/internal/telemetry"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Format selects the websocket payload encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// ParseFormat maps the ?format= query value. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCBOR:
		return FormatCBOR, nil
	}
	return "", fmt.Errorf("unsupported format %q (use json or cbor)", s)
}

// EncodeReading serializes r for the wire. JSON goes out as a text message,
// CBOR as a binary message.
func EncodeReading(format Format, r telemetry.Reading) (int, []byte, error) {
	switch format {
	case FormatCBOR:
		data, err := cbor.Marshal(r)
		return websocket.BinaryMessage, data, err
	default:
		data, err := json.Marshal(r)
		return websocket.TextMessage, data, err
	}
}

// handleWebSocket upgrades the request and streams readings until the
// client goes away or the server shuts down.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	remoteAddr := conn.RemoteAddr().String()
	s.track(remoteAddr, conn)
	s.wg.Add(1)
	defer func() {
		_ = conn.Close()
		s.untrack(remoteAddr)
		s.wg.Done()
		logging.LogConnection(remoteAddr, "websocket_closed")
	}()

	logging.LogConnection(remoteAddr, "websocket_upgraded")
	logging.Debug("Streaming telemetry",
		zap.String("remote_addr", remoteAddr),
		zap.String("format", string(format)),
	)

	readings, unsubscribe := s.poller.Subscribe()
	defer unsubscribe()

	closed := make(chan struct{})
	go readPump(conn, closed)

	if latest, ok := s.poller.Latest(); ok {
		if err := send(conn, format, latest); err != nil {
			logging.Info("Failed to send initial reading",
				zap.String("remote_addr", remoteAddr),
				zap.Error(err),
			)
			return
		}
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case reading, ok := <-readings:
			if !ok {
				return
			}
			if err := send(conn, format, reading); err != nil {
				logging.Info("Connection closed or error writing reading",
					zap.String("remote_addr", remoteAddr),
					zap.Error(err),
				)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-closed:
			return
		case <-s.done:
			return
		}
	}
}

func send(conn *websocket.Conn, format Format, r telemetry.Reading) error {
	msgType, data, err := EncodeReading(format, r)
	if err != nil {
		return fmt.Errorf("encode reading: %w", err)
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(msgType, data)
}

// readPump consumes client frames so control messages are processed.
// Clients are not expected to send data; anything they do send is dropped.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug("WebSocket read error",
					zap.String("remote_addr", conn.RemoteAddr().String()),
					zap.Error(err),
				)
			}
			return
		}
	}
}
