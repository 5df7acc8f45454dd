// internal/service/product/product.go
package product

import (
	"context"
	"fmt"

	"gymease-service/internal/domain/product"
	xerrors "gymease-service/internal/pkg/errors"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Store interface {
	Create(ctx context.Context, p *product.Package) error
	FindByID(ctx context.Context, id int64) (*product.Package, error)
	List(ctx context.Context, activeOnly bool) ([]*product.Package, error)
	Update(ctx context.Context, p *product.Package) error
	Delete(ctx context.Context, id int64) error
}

type ProductService struct {
	repo   Store
	logger *zap.Logger
}

func NewProductService(repo Store, logger *zap.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// CreatePackage stores a new membership package.
func (s *ProductService) CreatePackage(ctx context.Context, req *product.CreatePackageRequest) (*product.Package, error) {
	p := &product.Package{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		Features:     pq.StringArray(req.Features),
		IsActive:     true,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := validate(p); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create package", zap.Error(err))
		return nil, err
	}

	s.logger.Info("package created", zap.Int64("package_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// GetPackage returns a package by ID
func (s *ProductService) GetPackage(ctx context.Context, id int64) (*product.Package, error) {
	return s.repo.FindByID(ctx, id)
}

// ListPackages returns the active packages, or all of them for staff.
func (s *ProductService) ListPackages(ctx context.Context, includeInactive bool) ([]*product.Package, error) {
	return s.repo.List(ctx, !includeInactive)
}

// UpdatePackage applies the provided fields.
func (s *ProductService) UpdatePackage(ctx context.Context, id int64, req *product.UpdatePackageRequest) (*product.Package, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.DurationDays != nil {
		p.DurationDays = *req.DurationDays
	}
	if req.Features != nil {
		p.Features = pq.StringArray(req.Features)
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := validate(p); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("package updated", zap.Int64("package_id", p.ID))
	return p, nil
}

// DeletePackage removes a package
func (s *ProductService) DeletePackage(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("package deleted", zap.Int64("package_id", id))
	return nil
}

func validate(p *product.Package) error {
	fields := xerrors.FieldErrors{}
	if !p.Price.IsPositive() {
		fields.Add("harga", "Ensure this value is greater than 0.")
	}
	if !p.Price.Equal(p.Price.Truncate(0)) {
		fields.Add("harga", "Price must be a whole amount.")
	}
	if p.DurationDays < 1 {
		fields.Add("durasi_hari", fmt.Sprintf("Ensure this value is greater than or equal to %d.", 1))
	}
	return fields.OrNil()
}
