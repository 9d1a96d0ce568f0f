package console

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/stock-console/internal/dom"
)

// ClientCookie identifies a browser across connections so its stored
// credential can be found again.
const ClientCookie = "stockconsole_client"

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// connSink writes commands to one socket. gorilla/websocket allows a single
// concurrent writer.
type connSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *connSink) Send(cmd dom.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(cmd)
}

func (c *Console) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientID, header := clientIdentity(r)
	conn, err := upgrader.Upgrade(w, r, header)
	if err != nil {
		c.logger.Warn("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	c.pages.Add(1)
	defer c.pages.Add(-1)

	page := c.NewPage(clientID, &connSink{conn: conn})
	page.logger.Debug("page connected")

	// The page outlives the upgrade request's deadline.
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer page.Wait()
	defer cancel()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				page.logger.Warn("websocket read", "err", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			page.logger.Warn("invalid message", "err", err)
			continue
		}
		if err := page.Handle(ctx, msg); err != nil {
			page.logger.Warn("handling message", "type", msg.Type, "err", err)
		}
	}
}

// clientIdentity returns the client id from the request cookie, minting a
// new one and the header that sets it when absent.
func clientIdentity(r *http.Request) (string, http.Header) {
	if ck, err := r.Cookie(ClientCookie); err == nil {
		if id, err := uuid.Parse(ck.Value); err == nil {
			return id.String(), nil
		}
	}
	id := uuid.NewString()
	cookie := &http.Cookie{
		Name:     ClientCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	header := http.Header{}
	header.Add("Set-Cookie", cookie.String())
	return id, header
}
