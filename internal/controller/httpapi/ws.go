package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutoring_hub/internal/realtime"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

// Client подписчик ленты переписки через WebSocket. Клиент только слушает;
// сообщения отправляются через REST.
type Client struct {
	conn      *websocket.Conn
	log       *zap.Logger
	send      chan []byte
	stop      chan struct{}
	evictOnce sync.Once
}

func NewClient(conn *websocket.Conn, l *zap.Logger) *Client {
	return &Client{
		conn: conn,
		log:  l,
		send: make(chan []byte, sendBuffer),
		stop: make(chan struct{}),
	}
}

func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.badRequest(w)
		return
	}

	viewer := accountID(r.Context())
	ctx, cancel := dbContext(r)
	_, err := s.Conversations.GetForParty(ctx, id, viewer)
	cancel()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Error upgrading connection", zap.Error(err))
		return
	}

	client := NewClient(conn, s.log.With(
		zap.String("conversation_id", id.String()),
		zap.String("account_id", viewer.String())))

	unsubscribe := s.Messages.Subscribe(id, client.enqueue)
	go client.Write()
	go func() {
		client.Read()
		unsubscribe()
	}()
}

// enqueue вызывается горутиной подписки. Отставший клиент отключается с кодом
// 1013: после переподключения он перечитывает историю через REST.
func (c *Client) enqueue(evt realtime.Event) {
	if evt.Kind == realtime.EventFeedLagged {
		c.evict("feed subscription closed")
		return
	}

	raw, err := json.Marshal(evt)
	if err != nil {
		c.log.Warn("Failed to serialize event", zap.Error(err))
		return
	}

	select {
	case c.send <- raw:
	case <-c.stop:
	default:
		c.evict("client send buffer is full")
	}
}

// evict закрывает соединение; Read вернёт ошибку и снимет подписку
func (c *Client) evict(reason string) {
	c.evictOnce.Do(func() {
		c.log.Warn("Disconnecting lagging feed client", zap.String("reason", reason))
		msg := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "resync")
		c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		c.conn.Close()
	})
}

func (c *Client) Write() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			if !c.sendMessage(websocket.TextMessage, msg) {
				return
			}
		case <-c.stop:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-ticker.C:
			if !c.sendMessage(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (c *Client) Read() {
	defer func() {
		close(c.stop)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) })
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.log.Debug("ws: read", zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) sendMessage(msgType int, msg []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := c.conn.WriteMessage(msgType, msg); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			c.log.Debug("ws: write", zap.Error(err))
		}
		return false
	}

	return true
}
