package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	appticket "github.com/ticketflow/backend/internal/application/ticket"
	"github.com/ticketflow/backend/internal/domain/ticket"
	"github.com/ticketflow/backend/internal/interfaces/http/middleware"
)

// TicketHandler handles draft generation and publishing HTTP requests
type TicketHandler struct {
	BaseHandler
	generator *appticket.GeneratorService
	publisher *appticket.PublisherService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(generator *appticket.GeneratorService, publisher *appticket.PublisherService) *TicketHandler {
	return &TicketHandler{
		generator: generator,
		publisher: publisher,
	}
}

// ProcessDocumentRequest is the request body for draft generation
type ProcessDocumentRequest struct {
	Content string `json:"content" binding:"required"`
}

// ProcessDocumentResponse carries the generated draft tickets
type ProcessDocumentResponse struct {
	Tickets []ticket.Draft `json:"tickets"`
}

// PublishRequest is the request body for bulk publishing
type PublishRequest struct {
	Tickets []ticket.Draft `json:"tickets" binding:"required"`
}

// PublishResponse carries the per-ticket publish outcomes
type PublishResponse struct {
	Message string                 `json:"message"`
	Results []ticket.PublishResult `json:"results"`
}

// ProcessDocument converts free-form document text into draft tickets
func (h *TicketHandler) ProcessDocument(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ProcessDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	drafts, err := h.generator.Generate(c.Request.Context(), userID, req.Content)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ProcessDocumentResponse{Tickets: drafts})
}

// Publish creates one Jira issue per submitted draft. All drafts created
// returns 200; any per-ticket failure returns 207 Multi-Status. Both carry
// the full ordered result list so callers can retry only the failed entries.
func (h *TicketHandler) Publish(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if len(req.Tickets) == 0 {
		h.BadRequest(c, "At least one ticket is required")
		return
	}

	report, err := h.publisher.Publish(c.Request.Context(), userID, req.Tickets)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if report.AllCreated() {
		h.Success(c, PublishResponse{
			Message: fmt.Sprintf("Created %d tickets", len(report.Results)),
			Results: report.Results,
		})
		return
	}

	// Partial failure: 207 with the raw result payload, not the error envelope
	c.JSON(http.StatusMultiStatus, PublishResponse{
		Message: fmt.Sprintf("Created %d of %d tickets", len(report.Results)-report.FailedCount(), len(report.Results)),
		Results: report.Results,
	})
}
