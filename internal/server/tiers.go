package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/wardrobers/backend-api-sub000/internal/catalog/domain"
)

func (s *Server) ListTiers(c *gin.Context) {
	req := catalogdomain.ListTiersRequest{
		VariantID: strings.TrimSpace(c.Query("variant_id")),
		SortBy:    c.Query("sort_by"),
		OrderBy:   c.Query("order_by"),
	}

	resp, err := s.catalogSvc.ListTiers(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTierByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.catalogSvc.GetTier(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateTier(c *gin.Context) {
	var req catalogdomain.CreateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req.VariantID = strings.TrimSpace(req.VariantID)

	resp, err := s.catalogSvc.CreateTier(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AddTierFactor(c *gin.Context) {
	var req catalogdomain.AddFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.AddFactor(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SetCategoryMultiplier(c *gin.Context) {
	var req catalogdomain.SetCategoryMultiplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req.CategoryID = strings.TrimSpace(req.CategoryID)

	if err := s.catalogSvc.SetCategoryMultiplier(c.Request.Context(), req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func isCatalogValidationError(err error) bool {
	switch err {
	case catalogdomain.ErrInvalidVariant,
		catalogdomain.ErrInvalidTier,
		catalogdomain.ErrInvalidCategory,
		catalogdomain.ErrInvalidRetailPrice,
		catalogdomain.ErrInvalidTaxRate,
		catalogdomain.ErrInvalidRentalPeriod,
		catalogdomain.ErrInvalidPercentage,
		catalogdomain.ErrInvalidMultiplier,
		catalogdomain.ErrInvalidFee,
		catalogdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
