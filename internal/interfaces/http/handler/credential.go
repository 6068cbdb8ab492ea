package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcredential "github.com/ticketflow/backend/internal/application/credential"
	"github.com/ticketflow/backend/internal/interfaces/http/middleware"
)

// CredentialHandler handles stored vendor credential HTTP requests
type CredentialHandler struct {
	BaseHandler
	service       *appcredential.Service
	projectConfig *appcredential.ProjectConfigService
}

// NewCredentialHandler creates a new credential handler
func NewCredentialHandler(service *appcredential.Service, projectConfig *appcredential.ProjectConfigService) *CredentialHandler {
	return &CredentialHandler{
		service:       service,
		projectConfig: projectConfig,
	}
}

// SaveModelCredentialRequest is the request body for storing an API key
type SaveModelCredentialRequest struct {
	Key   string `json:"key" binding:"required"`
	Model string `json:"model" binding:"required"`
}

// SaveJiraCredentialRequest is the request body for storing the Jira connection
type SaveJiraCredentialRequest struct {
	Domain     string `json:"domain" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	APIToken   string `json:"api_token" binding:"required"`
	ProjectKey string `json:"project_key" binding:"required"`
}

// SaveModelCredential stores a new language-model API key for the user
func (h *CredentialHandler) SaveModelCredential(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SaveModelCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.SaveModelCredential(c.Request.Context(), appcredential.SaveModelCredentialInput{
		UserID: userID,
		Key:    req.Key,
		Model:  req.Model,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListModelCredentials returns the user's stored API keys without key material
func (h *CredentialHandler) ListModelCredentials(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.service.ListModelCredentials(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"credentials": result})
}

// DeleteModelCredential removes a stored API key owned by the user
func (h *CredentialHandler) DeleteModelCredential(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	credID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid credential ID")
		return
	}

	if err := h.service.DeleteModelCredential(c.Request.Context(), userID, credID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SaveJiraCredential creates or replaces the user's Jira connection
func (h *CredentialHandler) SaveJiraCredential(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SaveJiraCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.SaveJiraCredential(c.Request.Context(), appcredential.SaveJiraCredentialInput{
		UserID:     userID,
		Domain:     req.Domain,
		Email:      req.Email,
		APIToken:   req.APIToken,
		ProjectKey: req.ProjectKey,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetJiraCredential returns the user's Jira connection without the token
func (h *CredentialHandler) GetJiraCredential(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.service.GetJiraCredential(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetProjectConfig returns the issue types available in the user's Jira
// project, cached or freshly fetched
func (h *CredentialHandler) GetProjectConfig(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.projectConfig.GetProjectConfig(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// DeleteJiraCredential removes the user's Jira connection
func (h *CredentialHandler) DeleteJiraCredential(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.service.DeleteJiraCredential(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
