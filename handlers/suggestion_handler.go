package handlers

import (
	"context"
	"errors"
	"net/http"

	"bailbridge-backend/gemini"
	"bailbridge-backend/models"
	"bailbridge-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Suggester runs the suggestion pipeline
type Suggester interface {
	Suggest(ctx context.Context, req service.SuggestRequest) (*service.SuggestResult, error)
}

// SuggestionHandler handles HTTP requests for AI bail suggestions
type SuggestionHandler struct {
	suggester Suggester
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(suggester Suggester) *SuggestionHandler {
	return &SuggestionHandler{suggester: suggester}
}

// SuggestionRequest represents the request body for a suggestion.
// PriorConvictions is a pointer so an explicit false passes validation.
type SuggestionRequest struct {
	Name              string `json:"name" binding:"required"`
	Age               int    `json:"age" binding:"required,gt=0"`
	Gender            string `json:"gender" binding:"required"`
	OffenseType       string `json:"offenseType" binding:"required"`
	SectionNumber     string `json:"sectionNumber" binding:"required"`
	PriorConvictions  *bool  `json:"priorConvictions" binding:"required"`
	EmploymentStatus  string `json:"employmentStatus" binding:"required"`
	FamilyTies        string `json:"familyTies" binding:"required"`
	CriminalHistory   string `json:"criminalHistory" binding:"required"`
	AdditionalDetails string `json:"additionalDetails"`
}

// CaseFacts converts the bound request into pipeline input
func (r SuggestionRequest) CaseFacts() models.CaseFacts {
	return models.CaseFacts{
		Name:              r.Name,
		Age:               r.Age,
		Gender:            r.Gender,
		OffenseType:       r.OffenseType,
		SectionNumber:     r.SectionNumber,
		PriorConvictions:  r.PriorConvictions != nil && *r.PriorConvictions,
		EmploymentStatus:  r.EmploymentStatus,
		FamilyTies:        r.FamilyTies,
		CriminalHistory:   r.CriminalHistory,
		AdditionalDetails: r.AdditionalDetails,
	}
}

// Suggest handles POST /api/ai-suggestion
func (h *SuggestionHandler) Suggest(c *gin.Context) {
	var req SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewSuggestionFailure(models.SuggestionFailureLabel, "invalid request body: "+err.Error()))
		return
	}

	result, err := h.suggester.Suggest(c.Request.Context(), service.SuggestRequest{
		Facts:  req.CaseFacts(),
		Origin: requestOrigin(c),
	})
	if err != nil {
		status, message := failureStatus(err)
		zap.L().Error("handlers: suggestion failed",
			zap.String("request_id", RequestIDFrom(c)),
			zap.Int("status", status),
			zap.Error(err),
		)
		c.JSON(status, models.NewSuggestionFailure(models.SuggestionFailureLabel, message))
		return
	}

	c.JSON(http.StatusOK, models.NewSuggestionSuccess(result.Suggestion, result.Timestamp))
}

// failureStatus uses the upstream status when the completion call produced one
func failureStatus(err error) (int, string) {
	var apiErr *gemini.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 400 {
			return apiErr.StatusCode, apiErr.Message
		}
		return http.StatusInternalServerError, apiErr.Message
	}
	return http.StatusInternalServerError, err.Error()
}

// requestOrigin returns scheme://host of the inbound request
func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
