package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	pricingdomain "github.com/wardrobers/backend-api-sub000/internal/pricing/domain"
)

type quoteRequest struct {
	VariantID string    `json:"variant_id"`
	Condition string    `json:"condition"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	UserID    *string   `json:"user_id,omitempty"`
}

func (s *Server) QuotePrice(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	variantID, err := snowflake.ParseString(strings.TrimSpace(req.VariantID))
	if err != nil {
		AbortWithError(c, newValidationError("variant_id", "invalid_variant_id", "invalid value"))
		return
	}

	var userID *snowflake.ID
	if req.UserID != nil && strings.TrimSpace(*req.UserID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(*req.UserID))
		if err != nil {
			AbortWithError(c, newValidationError("user_id", "invalid_user_id", "invalid value"))
			return
		}
		userID = &parsed
	}

	breakdown, err := s.pricingSvc.Quote(c.Request.Context(), pricingdomain.QuoteRequest{
		VariantID: variantID,
		Condition: pricingdomain.Condition(strings.TrimSpace(req.Condition)),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		UserID:    userID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": breakdown})
}
