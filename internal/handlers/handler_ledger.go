package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting_service/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_service/internal/dto"
	"github.com/SscSPs/ledger_posting_service/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests that post, reverse and read journal entries.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// RegisterLedgerRoutes registers posting and entry routes. Extra handlers, such as a rate
// limiter, run in front of the write routes only.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, writeGuards ...gin.HandlerFunc) {
	h := newLedgerHandler(ledgerService)

	ledger := rg.Group("/ledger")
	{
		postings := ledger.Group("/postings", writeGuards...)
		postings.POST("/:eventType", h.postEvent)
		postings.DELETE("", h.reverse)
		postings.DELETE("/:eventType/:documentNumber", h.reverseBySource)

		ledger.GET("/entries", h.listEntries)
		ledger.GET("/entries/:entryID", h.getEntry)
	}
}

func eventTypeParam(c *gin.Context) domain.EventType {
	return domain.EventType(strings.ToUpper(strings.ReplaceAll(c.Param("eventType"), "-", "_")))
}

// postEvent godoc
// @Summary Post a business event to the ledger
// @Description Decodes the snapshot for the event type (invoice, bill, pos-sale, manual) and writes one balanced entry
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   eventType path string true "Event type"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid snapshot or unknown event type"
// @Failure 409 {object} map[string]string "Reference already posted"
// @Failure 422 {object} map[string]string "Missing account or unbalanced entry"
// @Failure 500 {object} map[string]string "Failed to post"
// @Security BearerAuth
// @Router /ledger/postings/{eventType} [post]
func (h *ledgerHandler) postEvent(c *gin.Context) {
	eventType := eventTypeParam(c)
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("event_type", string(eventType)))

	snapshot, err := h.ledgerService.NewSnapshot(eventType)
	if err != nil {
		respondError(c, logger, err, "Unknown event type")
		return
	}
	if err := c.ShouldBindJSON(snapshot); err != nil {
		logger.Warn("Failed to bind JSON for posting", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.ledgerService.Post(c.Request.Context(), eventType, snapshot)
	if err != nil {
		respondError(c, logger, err, "Failed to post journal entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// reverse godoc
// @Summary Reverse a posted entry
// @Description Deletes the entry with exactly this reference. Unknown references succeed without change.
// @Tags ledger
// @Param   reference query string true "Journal reference, e.g. INV-1042"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Missing reference"
// @Failure 500 {object} map[string]string "Failed to reverse"
// @Security BearerAuth
// @Router /ledger/postings [delete]
func (h *ledgerHandler) reverse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ReverseEntryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for reversal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	if err := h.ledgerService.Reverse(c.Request.Context(), params.Reference); err != nil {
		respondError(c, logger, err, "Failed to reverse journal entry")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ledgerHandler) reverseBySource(c *gin.Context) {
	eventType := eventTypeParam(c)
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("event_type", string(eventType)))

	if err := h.ledgerService.ReverseBySource(c.Request.Context(), eventType, c.Param("documentNumber")); err != nil {
		respondError(c, logger, err, "Failed to reverse journal entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// getEntry godoc
// @Summary Get a journal entry with its items
// @Tags ledger
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /ledger/entries/{entryID} [get]
func (h *ledgerHandler) getEntry(c *gin.Context) {
	entryID := c.Param("entryID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", entryID))

	entry, err := h.ledgerService.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List entries by reference prefix
// @Description Newest first, token paginated. Items are omitted; fetch a single entry for its lines.
// @Tags ledger
// @Produce  json
// @Param   referencePrefix query string false "Reference prefix, e.g. INV-"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Security BearerAuth
// @Router /ledger/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.ListEntriesByReferencePrefix(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}
