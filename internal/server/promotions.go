package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	promotiondomain "github.com/wardrobers/backend-api-sub000/internal/promotion/domain"
)

func (s *Server) ListPromotions(c *gin.Context) {
	req := promotiondomain.ListRequest{
		Code:      strings.TrimSpace(c.Query("code")),
		VariantID: strings.TrimSpace(c.Query("variant_id")),
		SortBy:    c.Query("sort_by"),
		OrderBy:   c.Query("order_by"),
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			AbortWithError(c, newValidationError("active", "invalid_request", "invalid value"))
			return
		}
		req.Active = &active
	}

	resp, err := s.promotionSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPromotionByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.promotionSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreatePromotion(c *gin.Context) {
	var req promotiondomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req.Code = strings.TrimSpace(req.Code)

	resp, err := s.promotionSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeactivatePromotion(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.promotionSvc.Deactivate(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isPromotionValidationError(err error) bool {
	switch err {
	case promotiondomain.ErrInvalidCode,
		promotiondomain.ErrInvalidDiscountType,
		promotiondomain.ErrInvalidDiscountValue,
		promotiondomain.ErrInvalidValidityWindow,
		promotiondomain.ErrInvalidMaxUses,
		promotiondomain.ErrInvalidScope,
		promotiondomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
