// internal/service/trainer/trainer.go
package trainer

import (
	"context"
	"fmt"

	"gymease-service/internal/domain/trainer"
	"gymease-service/internal/pkg/codegen"

	"go.uber.org/zap"
)

type Store interface {
	Create(ctx context.Context, t *trainer.Trainer) error
	FindByID(ctx context.Context, id int64) (*trainer.Trainer, error)
	List(ctx context.Context, search string, activeOnly bool) ([]*trainer.Trainer, error)
	Update(ctx context.Context, t *trainer.Trainer) error
	Delete(ctx context.Context, id int64) error
}

type TrainerService struct {
	repo   Store
	logger *zap.Logger
}

func NewTrainerService(repo Store, logger *zap.Logger) *TrainerService {
	return &TrainerService{repo: repo, logger: logger}
}

// CreateTrainer stores a trainer with a generated id_pt.
func (s *TrainerService) CreateTrainer(ctx context.Context, req *trainer.CreateTrainerRequest) (*trainer.Trainer, error) {
	t := &trainer.Trainer{
		Name:             req.Name,
		Certification:    req.Certification,
		ExperienceMonths: req.ExperienceMonths,
		Phone:            req.Phone,
		Email:            req.Email,
		IsActive:         true,
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}

	_, err := codegen.Insert(codegen.PrefixTrainer, 6, func(code string) error {
		t.Code = code
		return s.repo.Create(ctx, t)
	})
	if err != nil {
		s.logger.Error("failed to create trainer", zap.Error(err))
		return nil, fmt.Errorf("failed to create trainer: %w", err)
	}

	s.logger.Info("trainer created", zap.Int64("trainer_id", t.ID), zap.String("id_pt", t.Code))
	return t, nil
}

// GetTrainer returns a trainer by ID
func (s *TrainerService) GetTrainer(ctx context.Context, id int64) (*trainer.Trainer, error) {
	return s.repo.FindByID(ctx, id)
}

// ListTrainers returns trainers matching search; the public list hides inactive ones.
func (s *TrainerService) ListTrainers(ctx context.Context, search string, includeInactive bool) ([]*trainer.Trainer, error) {
	return s.repo.List(ctx, search, !includeInactive)
}

// UpdateTrainer applies the provided fields.
func (s *TrainerService) UpdateTrainer(ctx context.Context, id int64, req *trainer.UpdateTrainerRequest) (*trainer.Trainer, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Certification != nil {
		t.Certification = *req.Certification
	}
	if req.ExperienceMonths != nil {
		t.ExperienceMonths = *req.ExperienceMonths
	}
	if req.Phone != nil {
		t.Phone = *req.Phone
	}
	if req.Email != nil {
		t.Email = *req.Email
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("trainer updated", zap.Int64("trainer_id", t.ID))
	return t, nil
}

// DeleteTrainer removes a trainer
func (s *TrainerService) DeleteTrainer(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("trainer deleted", zap.Int64("trainer_id", id))
	return nil
}
