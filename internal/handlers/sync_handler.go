package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"coinconductor/internal/bank"
	apperrors "coinconductor/internal/errors"
	"coinconductor/internal/logger"
	"coinconductor/internal/services"
)

// SyncHandler handles bank sync triggers and provider webhooks.
type SyncHandler struct {
	syncService   services.SyncServicer
	webhookSecret string
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncService services.SyncServicer, webhookSecret string) *SyncHandler {
	return &SyncHandler{syncService: syncService, webhookSecret: webhookSecret}
}

// TriggerSync pulls new payments for a bank account
// @Summary     Sync a bank account
// @Tags        sync
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Bank account ID"
// @Success     200 {object} services.SyncResult "Sync summary"
// @Failure     404 {object} ErrorResponse "Bank account not found"
// @Failure     500 {object} ErrorResponse "Sync failure"
// @Router      /sync/bank-accounts/{id} [post]
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.syncService.SyncAccount(c.Request.Context(), userID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Webhook receives provider events. The body signature is verified
// against the shared secret; after that the delivery is always
// acknowledged, even when individual events cannot be processed.
// @Summary     Receive bank provider webhook
// @Tags        sync
// @Accept      json
// @Produce     json
// @Param       Webhook-Signature header string true "HMAC-SHA256 body signature"
// @Success     200 {object} map[string]string "Acknowledged"
// @Failure     401 {object} ErrorResponse "Invalid signature"
// @Router      /sync/webhook [post]
func (h *SyncHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "unreadable body"))
		return
	}

	signature := c.GetHeader(bank.SignatureHeader)
	if !bank.VerifySignature(body, signature, h.webhookSecret) {
		respondWithError(c, apperrors.ErrInvalidSignature)
		return
	}

	events, err := bank.ParseEvents(body)
	if err != nil {
		// Authenticated but malformed: acknowledge so the provider does
		// not retry forever.
		logger.Get().Warnw("webhook body parse failed", "error", err.Error())
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	h.syncService.ProcessWebhookEvents(c.Request.Context(), events)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
