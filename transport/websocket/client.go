package websocket

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/oiloilo44/lupin/internal/usecase"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// sendBufferSize - outbound queue per connection; the room drops
	// messages for a connection that falls this far behind.
	sendBufferSize = 64
)

// client - one WebSocket connection and its room binding. The binding is
// empty until a join or reconnect succeeds.
type client struct {
	conn *websocket.Conn
	send chan []byte

	roomID       string
	room         *usecase.Room
	subID        int64
	playerNumber int
}

func newClient(conn *websocket.Conn, roomID string) *client {
	return &client{
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		roomID: roomID,
	}
}

func (that *client) bind(room *usecase.Room, subID int64, playerNumber int) {
	that.room = room
	that.subID = subID
	that.playerNumber = playerNumber
}

func (that *client) isBound() bool {
	return that.room != nil
}

// writePump - drains the send channel onto the socket and keeps the
// connection alive with pings. It owns closing the connection.
func (that *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case message, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
