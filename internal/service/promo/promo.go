// internal/service/promo/promo.go
package promo

import (
	"context"
	"errors"
	"fmt"

	"gymease-service/internal/domain/product"
	"gymease-service/internal/domain/promo"
	"gymease-service/internal/pkg/clock"
	"gymease-service/internal/pkg/codegen"
	xerrors "gymease-service/internal/pkg/errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

type Store interface {
	Create(ctx context.Context, p *promo.Promo) error
	FindByID(ctx context.Context, id int64) (*promo.Promo, error)
	List(ctx context.Context) ([]promo.Promo, error)
	Update(ctx context.Context, p *promo.Promo) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

type PackageFinder interface {
	FindByID(ctx context.Context, id int64) (*product.Package, error)
}

type PromoService struct {
	promos   Store
	packages PackageFinder
	now      clock.Func
	logger   *zap.Logger
}

func NewPromoService(promos Store, packages PackageFinder, now clock.Func, logger *zap.Logger) *PromoService {
	return &PromoService{
		promos:   promos,
		packages: packages,
		now:      now,
		logger:   logger,
	}
}

// ========== Staff Operations ==========

// CreatePromo validates and stores a new promo with a generated id_promo.
func (s *PromoService) CreatePromo(ctx context.Context, req *promo.CreatePromoRequest) (*promo.View, error) {
	p := &promo.Promo{
		Name:            req.Name,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		PackageID:       req.PackageID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsActive:        true,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}

	_, err := codegen.Insert(codegen.PrefixPromo, 6, func(code string) error {
		p.Code = code
		return s.promos.Create(ctx, p)
	})
	if err != nil {
		s.logger.Error("failed to create promo", zap.Error(err))
		return nil, fmt.Errorf("failed to create promo: %w", err)
	}

	s.logger.Info("promo created",
		zap.Int64("promo_id", p.ID),
		zap.String("id_promo", p.Code),
		zap.Int64("package_id", p.PackageID),
	)

	v := promo.WithStatus(*p, s.now())
	return &v, nil
}

// UpdatePromo applies the provided fields and re-validates the whole promo.
func (s *PromoService) UpdatePromo(ctx context.Context, id int64, req *promo.UpdatePromoRequest) (*promo.View, error) {
	p, err := s.promos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.DiscountPercent != nil {
		p.DiscountPercent = *req.DiscountPercent
	}
	if req.PackageID != nil {
		p.PackageID = *req.PackageID
	}
	if req.ClearDates || req.ClearStart {
		p.StartDate = nil
	}
	if req.ClearDates || req.ClearEnd {
		p.EndDate = nil
	}
	if req.StartDate != nil {
		p.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		p.EndDate = req.EndDate
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}
	if err := s.promos.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update promo: %w", err)
	}

	s.logger.Info("promo updated", zap.Int64("promo_id", p.ID))

	v := promo.WithStatus(*p, s.now())
	return &v, nil
}

// TogglePromo flips is_active.
func (s *PromoService) TogglePromo(ctx context.Context, id int64) (*promo.View, error) {
	p, err := s.promos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.IsActive = !p.IsActive
	if err := s.promos.SetActive(ctx, id, p.IsActive); err != nil {
		return nil, fmt.Errorf("failed to toggle promo: %w", err)
	}

	s.logger.Info("promo toggled", zap.Int64("promo_id", id), zap.Bool("is_active", p.IsActive))

	v := promo.WithStatus(*p, s.now())
	return &v, nil
}

// DeletePromo removes a promo
func (s *PromoService) DeletePromo(ctx context.Context, id int64) error {
	if err := s.promos.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("promo deleted", zap.Int64("promo_id", id))
	return nil
}

// ========== Read Operations ==========

// GetPromo returns one promo with its status.
func (s *PromoService) GetPromo(ctx context.Context, id int64) (*promo.View, error) {
	p, err := s.promos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := promo.WithStatus(*p, s.now())
	return &v, nil
}

// ListPromos filters every promo by search text and status.
func (s *PromoService) ListPromos(ctx context.Context, f promo.ListFilters) ([]promo.View, error) {
	status, err := promo.ParseStatusFilter(f.Status)
	if err != nil {
		fields := xerrors.FieldErrors{}
		fields.Add("status", fmt.Sprintf("Select a valid choice. %q is not one of the available choices.", f.Status))
		return nil, fields
	}

	all, err := s.promos.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := []promo.View{}
	for p := range promo.Filter(all, f.Search, status, now) {
		out = append(out, promo.WithStatus(p, now))
	}
	return out, nil
}

// ActivePromos returns the promos that can be applied right now.
func (s *PromoService) ActivePromos(ctx context.Context) ([]promo.View, error) {
	return s.ListPromos(ctx, promo.ListFilters{Status: string(promo.StatusActive)})
}

// Statistics counts promos per status.
func (s *PromoService) Statistics(ctx context.Context) (*promo.Stats, error) {
	all, err := s.promos.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := promo.CountByStatus(all, s.now())
	return &stats, nil
}

// Preview returns the price breakdown of a promo applied to its package.
func (s *PromoService) Preview(ctx context.Context, id int64) (*promo.Preview, error) {
	v, err := s.GetPromo(ctx, id)
	if err != nil {
		return nil, err
	}
	preview := promo.PreviewFor(*v)
	return &preview, nil
}

// ApplicablePromo loads a promo for checkout. It must target packageID and be
// active now.
func (s *PromoService) ApplicablePromo(ctx context.Context, id, packageID int64) (*promo.Promo, error) {
	p, err := s.promos.FindByID(ctx, id)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, fieldError("promo", "Promo does not exist.")
	}
	if err != nil {
		return nil, err
	}
	if p.PackageID != packageID {
		return nil, fieldError("promo", "Promo does not apply to the selected package.")
	}
	if st := promo.ResolveStatus(p, s.now()); st != promo.StatusActive {
		return nil, fieldError("promo", fmt.Sprintf("Promo is %s.", st))
	}
	return p, nil
}

// ========== Helpers ==========

func (s *PromoService) validate(ctx context.Context, p *promo.Promo) error {
	fields := xerrors.FieldErrors{}

	if p.Name == "" {
		fields.Add("nama_promo", "This field may not be blank.")
	}
	if p.DiscountPercent.IsNegative() || p.DiscountPercent.GreaterThan(hundred) {
		fields.Add("diskon_persen", "Ensure this value is between 0 and 100.")
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(p.StartDate.Time) {
		fields.Add("tanggal_berakhir", "End date must be on or after start date.")
	}

	pkg, err := s.packages.FindByID(ctx, p.PackageID)
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		fields.Add("paket", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", p.PackageID))
	case err != nil:
		return fmt.Errorf("failed to load package: %w", err)
	default:
		p.Package = pkg.Summary()
	}

	return fields.OrNil()
}

func fieldError(field, msg string) error {
	fields := xerrors.FieldErrors{}
	fields.Add(field, msg)
	return fields
}
