package ws

import (
	"net/http"
	"time"

	"edlink/config"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Conn couples a client with its socket and runs the two pumps.
type Conn struct {
	client *Client
	conn   *websocket.Conn
	cfg    config.WebSocketConfig
	log    zerolog.Logger
}

func NewConn(client *Client, conn *websocket.Conn, cfg config.WebSocketConfig, log zerolog.Logger) *Conn {
	return &Conn{client: client, conn: conn, cfg: cfg, log: log}
}

// Run starts the write pump and blocks in the read pump until the peer goes
// away. Every inbound message is passed to handle on the read goroutine.
func (c *Conn) Run(handle func(raw []byte)) {
	go c.writePump()
	c.readPump(handle)
}

func (c *Conn) readPump(handle func(raw []byte)) {
	defer func() {
		c.client.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}
		handle(raw)
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.client.Send:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
