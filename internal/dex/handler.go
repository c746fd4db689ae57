package dex

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lattice-hq/sentinel/pkg/response"
)

// Handler handles dex HTTP requests
type Handler struct {
	service      *Service
	streamPeriod time.Duration
	logger       *zap.Logger
	upgrader     websocket.Upgrader
}

// NewHandler creates a new dex handler
func NewHandler(service *Service, streamPeriod time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		service:      service,
		streamPeriod: streamPeriod,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Quotes are public data; origin checks add nothing here.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Quote returns a one-shot BUSD quote for a token
// GET /api/dex/bsc/:token
func (h *Handler) Quote(c *gin.Context) {
	quote, err := h.service.Quote(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, quote)
}

// Stream pushes quotes over a websocket until the client disconnects
// GET /api/dex/bsc/:token/stream
func (h *Handler) Stream(c *gin.Context) {
	token := c.Param("token")

	// Reject bad tokens before upgrading the connection.
	quote, err := h.service.Quote(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Reads are discarded; a read error is the disconnect signal.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(quote); err != nil {
		return
	}

	ticker := time.NewTicker(h.streamPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			quote, err := h.service.Quote(c.Request.Context(), token)
			if err != nil {
				h.logger.Warn("quote stream fetch failed",
					zap.String("token", token),
					zap.Error(err),
				)
				continue
			}
			if err := conn.WriteJSON(quote); err != nil {
				return
			}
		}
	}
}
