// internal/handlers/transaction/transaction_handler.go
package transaction

import (
	"net/http"

	"gymease-service/internal/domain/transaction"
	"gymease-service/internal/integrations/qrpay"
	"gymease-service/internal/middleware"
	"gymease-service/internal/pkg/response"
	service "gymease-service/internal/service/transaction"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	transactionService *service.TransactionService
	callbackSecret     string
	logger             *zap.Logger
}

func NewTransactionHandler(transactionService *service.TransactionService, callbackSecret string, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		callbackSecret:     callbackSecret,
		logger:             logger,
	}
}

func viewer(c *gin.Context) service.Viewer {
	userID, _ := middleware.GetUserID(c)
	return service.Viewer{UserID: userID, Staff: middleware.IsStaff(c)}
}

// Checkout creates a pending transaction and returns it with its QR payload.
func (h *TransactionHandler) Checkout(c *gin.Context) {
	var req transaction.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	t, err := h.transactionService.Checkout(c.Request.Context(), viewer(c), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

// ListTransactions filters with ?status= and, for staff, ?member=.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var (
		f transaction.ListFilters
		p response.Pagination
	)
	if err := c.ShouldBindQuery(&f); err != nil {
		response.BindError(c, err)
		return
	}
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BindError(c, err)
		return
	}
	p.Normalize()

	items, total, err := h.transactionService.List(c.Request.Context(), viewer(c), f, p.PageSize, p.Offset())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.WritePage(c, items, total, p)
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	t, err := h.transactionService.Get(c.Request.Context(), viewer(c), c.Param("id_transaksi"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *TransactionHandler) Statistics(c *gin.Context) {
	stats, err := h.transactionService.Statistics(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// ConfirmPayment is the staff override for cash or manually verified payments.
func (h *TransactionHandler) ConfirmPayment(c *gin.Context) {
	t, err := h.transactionService.ConfirmPayment(c.Request.Context(), c.Param("id_transaksi"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

// CheckPayment re-reads the QR status from the gateway.
func (h *TransactionHandler) CheckPayment(c *gin.Context) {
	t, err := h.transactionService.SyncPayment(c.Request.Context(), viewer(c), c.Param("id_transaksi"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *TransactionHandler) CancelTransaction(c *gin.Context) {
	t, err := h.transactionService.Cancel(c.Request.Context(), viewer(c), c.Param("id_transaksi"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

// PaymentCallback receives QR payment notifications from the gateway.
func (h *TransactionHandler) PaymentCallback(c *gin.Context) {
	if !qrpay.VerifyCallback(h.callbackSecret, c.GetHeader(qrpay.CallbackSecretHeader)) {
		h.logger.Warn("rejected payment callback", zap.String("ip", c.ClientIP()))
		response.Unauthorized(c, "Invalid callback token.")
		return
	}

	var cb transaction.PaymentCallback
	if err := c.ShouldBindJSON(&cb); err != nil {
		response.BindError(c, err)
		return
	}

	t, err := h.transactionService.HandleCallback(c.Request.Context(), &cb)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id_transaksi": t.Code,
		"status":       t.Status,
	})
}
