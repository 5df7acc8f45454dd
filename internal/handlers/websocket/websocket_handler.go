// internal/handlers/websocket/websocket_handler.go
package websocket

import (
	"net/http"
	"slices"

	"gymease-service/internal/domain/transaction"
	wstypes "gymease-service/internal/domain/websocket"
	"gymease-service/internal/pkg/response"
	service "gymease-service/internal/service/transaction"
	ws "gymease-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WebSocketHandler struct {
	hub                *ws.Hub
	transactionService *service.TransactionService
	upgrader           websocket.Upgrader
	logger             *zap.Logger
}

// NewWebSocketHandler accepts upgrades from allowedOrigins; "*" allows any origin.
func NewWebSocketHandler(hub *ws.Hub, transactionService *service.TransactionService, allowedOrigins []string, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:                hub,
		transactionService: transactionService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
		logger: logger,
	}
}

// WatchTransaction streams status changes of one transaction. The first frame
// carries the status at connect time.
func (h *WebSocketHandler) WatchTransaction(c *gin.Context) {
	t, err := h.transactionService.Lookup(c.Request.Context(), c.Param("id_transaksi"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err), zap.String("ip", c.ClientIP()))
		return
	}

	client := ws.NewClient(h.hub, conn, t.Code)
	initial := wstypes.NewMessage(wstypes.EventTypeTransactionStatus, transaction.StatusEvent{
		Code:   t.Code,
		Status: t.Status,
		At:     t.UpdatedAt,
	})
	if err := h.hub.Subscribe(client, initial); err != nil {
		h.logger.Error("websocket subscribe failed", zap.Error(err), zap.String("id_transaksi", t.Code))
		_ = conn.Close()
		return
	}

	h.logger.Debug("websocket client connected", zap.String("id_transaksi", client.Topic()), zap.String("ip", c.ClientIP()))

	go client.WritePump()
	go client.ReadPump()
}
