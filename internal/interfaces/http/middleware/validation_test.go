package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ticketflow/backend/internal/interfaces/http/dto"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestHandleValidationError(t *testing.T) {
	type registerBody struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}

	SetupValidator()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/register", func(c *gin.Context) {
		var req registerBody
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("reports field details with json names", func(t *testing.T) {
		body := strings.NewReader(`{"email": "not-an-email", "password": "short"}`)
		req := httptest.NewRequest(http.MethodPost, "/register", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		require.Len(t, resp.Error.Details, 2)

		fields := []string{resp.Error.Details[0].Field, resp.Error.Details[1].Field}
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "password")
	})

	t.Run("malformed json yields no field details", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("not json"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Empty(t, resp.Error.Details)
	})

	t.Run("valid input passes through", func(t *testing.T) {
		body := strings.NewReader(`{"email": "dev@example.com", "password": "long-enough"}`)
		req := httptest.NewRequest(http.MethodPost, "/register", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestValidationMessages(t *testing.T) {
	type allTags struct {
		Name   string `json:"name" binding:"required"`
		Kind   string `json:"kind" binding:"omitempty,oneof=task story bug"`
		Limit  int    `json:"limit" binding:"omitempty,max=100"`
		Source string `json:"source" binding:"omitempty,url"`
	}

	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	err := v.Struct(allTags{Kind: "epic", Limit: 500, Source: "::bad::"})
	require.Error(t, err)

	validationErrors, ok := err.(validator.ValidationErrors)
	require.True(t, ok)

	messages := make(map[string]string)
	for _, e := range validationErrors {
		messages[e.Field()] = validationMessage(e)
	}

	assert.Equal(t, "This field is required", messages["name"])
	assert.Equal(t, "Must be one of: task story bug", messages["kind"])
	assert.Equal(t, "Must be at most 100", messages["limit"])
	assert.Equal(t, "Invalid URL format", messages["source"])
}
