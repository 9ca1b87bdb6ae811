package hub

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to the peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from the peer.
	maxMessageSize = 4096

	// Outbound buffer per subscriber. A subscriber that falls this far
	// behind is dropped rather than allowed to stall the hub.
	sendBufferSize = 256
)

var (
	ErrSubscriberClosed = errors.New("subscriber closed")
	ErrBufferFull       = errors.New("send buffer full")
)

// WSSubscriber adapts a gorilla websocket connection to the hub's
// Subscriber interface. Send enqueues onto a buffered channel drained by
// a single write pump, so delivery order per subscriber follows the
// order of Broadcast calls and a send never blocks the hub.
type WSSubscriber struct {
	conn   *websocket.Conn
	send   chan []byte
	closed chan struct{}
	once   sync.Once
	logger *zap.Logger
}

func NewWSSubscriber(conn *websocket.Conn, logger *zap.Logger) *WSSubscriber {
	return &WSSubscriber{
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		closed: make(chan struct{}),
		logger: logger,
	}
}

// Send enqueues a payload for the write pump. It fails when the
// subscriber is closed or its buffer is saturated; the hub treats either
// as a stale subscriber.
func (s *WSSubscriber) Send(data []byte) error {
	select {
	case <-s.closed:
		return ErrSubscriberClosed
	default:
	}

	select {
	case s.send <- data:
		return nil
	default:
		return ErrBufferFull
	}
}

// Close releases the underlying connection. Idempotent.
func (s *WSSubscriber) Close() {
	s.once.Do(func() {
		close(s.closed)
		_ = s.conn.Close()
	})
}

// WritePump drains the send channel onto the connection and keeps the
// peer alive with periodic pings. It runs until the subscriber is closed
// or a write fails.
func (s *WSSubscriber) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case data := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("websocket write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.closed:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// ReadPump consumes inbound frames until the peer goes away. Subscribers
// are receive-only; inbound payloads are discarded and only serve to
// detect disconnects and reset the read deadline.
func (s *WSSubscriber) ReadPump() {
	defer s.Close()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read failed", zap.Error(err))
			}
			return
		}
	}
}
