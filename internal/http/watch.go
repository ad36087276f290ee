package http

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readtrack/internal/watch"
)

type WatchController struct {
	hub *watch.Hub
}

func NewWatchController(hub *watch.Hub) *WatchController {
	return &WatchController{hub: hub}
}

// Stream pushes full library snapshots as server-sent events until the
// client disconnects. The subscription is cancelled on the way out, so no
// snapshot is delivered after teardown.
func (controller *WatchController) Stream(c *gin.Context) {
	sub := controller.hub.Subscribe(GetUserID(c))
	defer sub.Cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()

	c.Stream(func(w io.Writer) bool {
		select {
		case snap, ok := <-sub.Snapshots:
			if !ok {
				return false
			}
			payload, err := json.Marshal(snap)
			if err != nil {
				return false
			}
			c.SSEvent("snapshot", string(payload))
			return true
		case <-clientGone:
			return false
		}
	})
}
