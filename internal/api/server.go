package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"strategy-core/internal/notify"
	"strategy-core/internal/strategy"
	"strategy-core/pkg/market/hyperliquid"
)

// PriceFeed is the outbound price service surface the API depends on.
// Failures are already swallowed by the client: nil map / empty slice is the
// only degraded signal.
type PriceFeed interface {
	GetAllMids(ctx context.Context) map[string]string
	GetCandles(ctx context.Context, coin, interval string, startTime, endTime int64) []hyperliquid.Candle
}

// SystemMeta describes runtime status exposed to the UI.
type SystemMeta struct {
	Version      string
	Coins        []string
	SyncInterval time.Duration
}

// Server wires HTTP endpoints around one store consumer and the price feed.
type Server struct {
	Router        *gin.Engine
	Store         *strategy.Store
	Feed          PriceFeed
	Notifications *notify.Channel
	PriceInterval time.Duration
	Meta          SystemMeta
}

func NewServer(store *strategy.Store, feed PriceFeed, notifications *notify.Channel, priceInterval time.Duration, meta SystemMeta) *Server {
	r := gin.New()

	// Middleware stack (order matters!)
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogger())
	r.Use(RateLimitMiddleware())
	r.Use(TimeoutMiddleware(30 * time.Second))
	r.Use(CORSMiddleware())

	s := &Server{
		Router:        r,
		Store:         store,
		Feed:          feed,
		Notifications: notifications,
		PriceInterval: priceInterval,
		Meta:          meta,
	}
	s.routes()
	return s
}

// Start serves HTTP on addr; blocks until the listener fails.
func (s *Server) Start(addr string) error {
	return s.Router.Run(addr)
}

func (s *Server) routes() {
	s.Router.GET("/health", s.health)
	s.Router.GET("/ws/prices", s.priceStream)

	api := s.Router.Group("/api")
	{
		api.GET("/strategies", s.listStrategies)
		api.POST("/strategies", s.createStrategy)
		api.PUT("/strategies/:id", s.updateStrategy)
		api.POST("/strategies/:id/status", s.setStrategyStatus)
		api.DELETE("/strategies/:id", s.deleteStrategy)
		api.POST("/strategies/:id/trade", s.simulateTrade)

		api.GET("/prices", s.getPrices)
		api.GET("/prices/:coin/candles", s.getCandles)

		api.GET("/notifications", s.getNotifications)
	}
}
