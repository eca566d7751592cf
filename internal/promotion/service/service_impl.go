package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	promotiondomain "github.com/wardrobers/backend-api-sub000/internal/promotion/domain"
	"github.com/wardrobers/backend-api-sub000/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  promotiondomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  promotiondomain.Repository
}

func New(p Params) promotiondomain.Service {
	return &Service{
		log:   p.Log.Named("promotion.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req promotiondomain.CreateRequest) (*promotiondomain.Response, error) {
	code := normalizeCode(req.Code)
	if code == "" {
		return nil, promotiondomain.ErrInvalidCode
	}

	var variantID, userID *snowflake.ID
	if req.VariantID != nil && strings.TrimSpace(*req.VariantID) != "" {
		parsed, err := parseID(*req.VariantID)
		if err != nil {
			return nil, promotiondomain.ErrInvalidScope
		}
		variantID = &parsed
	}
	if req.UserID != nil && strings.TrimSpace(*req.UserID) != "" {
		parsed, err := parseID(*req.UserID)
		if err != nil {
			return nil, promotiondomain.ErrInvalidScope
		}
		userID = &parsed
	}

	now := time.Now().UTC()
	promotion := &promotiondomain.Promotion{
		ID:            s.genID.Generate(),
		Code:          code,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		ValidFrom:     req.ValidFrom.UTC(),
		ValidTo:       req.ValidTo.UTC(),
		MaxUses:       req.MaxUses,
		UsesLeft:      req.MaxUses,
		Active:        true,
		VariantID:     variantID,
		UserID:        userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Metadata != nil {
		promotion.Metadata = datatypes.JSONMap(req.Metadata)
	}
	if err := promotion.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, promotion); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, promotiondomain.ErrCodeExists
		}
		return nil, err
	}

	resp := toResponse(promotion)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*promotiondomain.Response, error) {
	promotionID, err := parseID(id)
	if err != nil {
		return nil, promotiondomain.ErrInvalidID
	}

	promotion, err := s.repo.FindByID(ctx, promotionID)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, promotiondomain.ErrNotFound
	}

	resp := toResponse(promotion)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req promotiondomain.ListRequest) ([]promotiondomain.Response, error) {
	if req.Code != "" {
		req.Code = normalizeCode(req.Code)
	}

	promotions, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make([]promotiondomain.Response, 0, len(promotions))
	for i := range promotions {
		out = append(out, toResponse(&promotions[i]))
	}
	return out, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) (*promotiondomain.Response, error) {
	promotionID, err := parseID(id)
	if err != nil {
		return nil, promotiondomain.ErrInvalidID
	}

	if err := s.repo.SetActive(ctx, promotionID, false); err != nil {
		return nil, err
	}

	promotion, err := s.repo.FindByID(ctx, promotionID)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, promotiondomain.ErrNotFound
	}

	resp := toResponse(promotion)
	return &resp, nil
}

// normalizeCode slugifies marketing-supplied codes to an uppercase stable
// form, e.g. "Summer Sale!" -> "SUMMER-SALE".
func normalizeCode(code string) string {
	return strings.ToUpper(slug.Make(strings.TrimSpace(code)))
}

func toResponse(promotion *promotiondomain.Promotion) promotiondomain.Response {
	resp := promotiondomain.Response{
		ID:            promotion.ID.String(),
		Code:          promotion.Code,
		DiscountType:  promotion.DiscountType,
		DiscountValue: promotion.DiscountValue,
		ValidFrom:     promotion.ValidFrom,
		ValidTo:       promotion.ValidTo,
		MaxUses:       promotion.MaxUses,
		UsesLeft:      promotion.UsesLeft,
		Active:        promotion.Active,
		CreatedAt:     promotion.CreatedAt,
		UpdatedAt:     promotion.UpdatedAt,
	}
	if promotion.VariantID != nil {
		variant := promotion.VariantID.String()
		resp.VariantID = &variant
	}
	if promotion.UserID != nil {
		user := promotion.UserID.String()
		resp.UserID = &user
	}
	return resp
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
