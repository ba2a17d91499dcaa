package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"strategy-core/internal/strategy"
)

type strategyRequest struct {
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Config strategy.Config `json:"config"`
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Active Paused"`
}

func respondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, gin.H{
		"code":  code,
		"error": msg,
	})
}

// respondStoreError maps domain errors onto HTTP statuses. Validation
// failures are recoverable client errors; everything else is a 500.
func respondStoreError(c *gin.Context, err error) {
	var ve *strategy.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(c, http.StatusBadRequest, ve.Code, ve.Msg)
	case errors.Is(err, strategy.ErrNotFound):
		respondError(c, http.StatusNotFound, "not_found", "strategy not found")
	default:
		respondError(c, http.StatusInternalServerError, "internal", "operation failed")
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"version":       s.Meta.Version,
		"coins":         s.Meta.Coins,
		"sync_interval": s.Meta.SyncInterval.String(),
	})
}

func (s *Server) listStrategies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"strategies": s.Store.List()})
}

func (s *Server) createStrategy(c *gin.Context) {
	var req strategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	st, err := s.Store.Create(c.Request.Context(), req.Name, strategy.Type(req.Type), req.Config)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (s *Server) updateStrategy(c *gin.Context) {
	var req strategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	st, err := s.Store.Update(c.Request.Context(), c.Param("id"), req.Name, strategy.Type(req.Type), req.Config)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) setStrategyStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_status", "status must be Active or Paused")
		return
	}

	if err := s.Store.SetStatus(c.Request.Context(), c.Param("id"), strategy.Status(req.Status)); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteStrategy(c *gin.Context) {
	if err := s.Store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) simulateTrade(c *gin.Context) {
	res, err := s.Store.RecordTrade(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) getPrices(c *gin.Context) {
	mids := s.Feed.GetAllMids(c.Request.Context())
	if mids == nil {
		// Feed degraded; the UI keeps showing stale data.
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mids": mids})
}

func (s *Server) getCandles(c *gin.Context) {
	coin := c.Param("coin")
	interval := c.DefaultQuery("interval", "1h")
	start, _ := strconv.ParseInt(c.Query("start"), 10, 64)
	end, _ := strconv.ParseInt(c.Query("end"), 10, 64)

	candles := s.Feed.GetCandles(c.Request.Context(), coin, interval, start, end)
	c.JSON(http.StatusOK, gin.H{"coin": coin, "interval": interval, "candles": candles})
}

func (s *Server) getNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": s.Notifications.Active()})
}
