package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes exposes one websocket per run session. Watchers receive
// every snapshot the hub broadcasts for that session id.
func RegisterRoutes(r fiber.Router, hub *Hub) {
	r.Get("/ws/:sessionID", websocket.New(func(c *websocket.Conn) {
		watcher := hub.Register(c.Params("sessionID"))
		defer hub.Unregister(watcher)

		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			for snapshot := range watcher.Send {
				if err := c.WriteMessage(websocket.TextMessage, snapshot); err != nil {
					return
				}
			}
		}()

		// watchers never send anything meaningful; reading just detects close
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		<-writerDone
	}))
}
