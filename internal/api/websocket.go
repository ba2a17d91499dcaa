package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"strategy-core/internal/feed"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type priceFrame struct {
	feed.Snapshot
	Direction feed.Direction `json:"direction"`
}

// priceStream upgrades to a websocket and pushes live price snapshots for one
// coin. Each connection owns its own subscription; closing the connection
// tears it down.
func (s *Server) priceStream(c *gin.Context) {
	coin := c.Query("coin")
	if coin == "" {
		respondError(c, http.StatusBadRequest, "coin_required", "coin query parameter is required")
		return
	}
	interval := s.PriceInterval
	if ms, err := strconv.Atoi(c.Query("interval_ms")); err == nil && ms > 0 {
		interval = time.Duration(ms) * time.Millisecond
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}
	defer conn.Close()

	sub := feed.NewSubscription(s.Feed, coin, interval)
	sub.Start(c.Request.Context())
	defer sub.Stop()

	// Reader loop detects client close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		snap := sub.Snapshot()
		frame := priceFrame{Snapshot: snap, Direction: snap.Direction()}
		if err := conn.WriteJSON(frame); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
		select {
		case <-ticker.C:
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
