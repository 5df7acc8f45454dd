// internal/service/member/member.go
package member

import (
	"context"
	"errors"
	"fmt"

	"gymease-service/internal/domain/member"
	"gymease-service/internal/pkg/civil"
	"gymease-service/internal/pkg/clock"
	"gymease-service/internal/pkg/codegen"
	xerrors "gymease-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type Store interface {
	Create(ctx context.Context, m *member.Member) error
	FindByID(ctx context.Context, id int64) (*member.Member, error)
	FindByUserID(ctx context.Context, userID int64) (*member.Member, error)
	List(ctx context.Context, f member.ListFilters, limit, offset int) ([]*member.Member, int, error)
	Update(ctx context.Context, m *member.Member) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*member.Stats, error)
	History(ctx context.Context, memberID int64) ([]*member.MembershipHistory, error)
	ActiveMembership(ctx context.Context, memberID int64, day civil.Date) (*member.MembershipHistory, error)
}

type MemberService struct {
	repo   Store
	now    clock.Func
	logger *zap.Logger
}

func NewMemberService(repo Store, now clock.Func, logger *zap.Logger) *MemberService {
	return &MemberService{repo: repo, now: now, logger: logger}
}

// NewMember builds an unsaved member from a create request.
func NewMember(req *member.CreateMemberRequest) *member.Member {
	m := &member.Member{
		Name:       req.Name,
		Address:    req.Address,
		BirthPlace: req.BirthPlace,
		BirthDay:   req.BirthDay,
		BirthMonth: req.BirthMonth,
		BirthYear:  req.BirthYear,
		Phone:      req.Phone,
		IsActive:   true,
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	return m
}

// CreateMember stores a member with a generated id_member.
func (s *MemberService) CreateMember(ctx context.Context, req *member.CreateMemberRequest) (*member.Member, error) {
	m := NewMember(req)
	if err := s.validateBirth(m); err != nil {
		return nil, err
	}

	_, err := codegen.Insert(codegen.PrefixMember, 6, func(code string) error {
		m.Code = code
		return s.repo.Create(ctx, m)
	})
	if err != nil {
		s.logger.Error("failed to create member", zap.Error(err))
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	s.logger.Info("member created", zap.Int64("member_id", m.ID), zap.String("id_member", m.Code))
	return m, nil
}

// GetMember returns a member by ID
func (s *MemberService) GetMember(ctx context.Context, id int64) (*member.Member, error) {
	return s.repo.FindByID(ctx, id)
}

// MemberForUser resolves the member profile linked to a login account.
func (s *MemberService) MemberForUser(ctx context.Context, userID int64) (*member.Member, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// ListMembers returns one page of members and the total count.
func (s *MemberService) ListMembers(ctx context.Context, f member.ListFilters, limit, offset int) ([]*member.Member, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// UpdateMember applies the provided fields.
func (s *MemberService) UpdateMember(ctx context.Context, id int64, req *member.UpdateMemberRequest) (*member.Member, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Address != nil {
		m.Address = *req.Address
	}
	if req.BirthPlace != nil {
		m.BirthPlace = *req.BirthPlace
	}
	if req.BirthDay != nil {
		m.BirthDay = *req.BirthDay
	}
	if req.BirthMonth != nil {
		m.BirthMonth = *req.BirthMonth
	}
	if req.BirthYear != nil {
		m.BirthYear = *req.BirthYear
	}
	if req.Phone != nil {
		m.Phone = *req.Phone
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}

	if err := s.validateBirth(m); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("member updated", zap.Int64("member_id", m.ID))
	return m, nil
}

// DeleteMember removes a member
func (s *MemberService) DeleteMember(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("member deleted", zap.Int64("member_id", id))
	return nil
}

// Statistics counts members by active flag.
func (s *MemberService) Statistics(ctx context.Context) (*member.Stats, error) {
	return s.repo.Stats(ctx)
}

// History lists a member's membership periods.
func (s *MemberService) History(ctx context.Context, id int64) ([]*member.MembershipHistory, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.History(ctx, id)
}

// MembershipStatus reports whether the member holds a paid period covering today.
func (s *MemberService) MembershipStatus(ctx context.Context, id int64) (*member.MembershipStatus, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	h, err := s.repo.ActiveMembership(ctx, id, civil.DateOf(s.now()))
	if errors.Is(err, xerrors.ErrNotFound) {
		return &member.MembershipStatus{Status: "inactive"}, nil
	}
	if err != nil {
		return nil, err
	}
	return &member.MembershipStatus{Status: "active", Membership: h}, nil
}

// validateBirth rejects birth dates that do not exist or lie in the future.
func (s *MemberService) validateBirth(m *member.Member) error {
	born, err := civil.ParseDate(fmt.Sprintf("%04d-%02d-%02d", m.BirthYear, m.BirthMonth, m.BirthDay))
	fields := xerrors.FieldErrors{}
	switch {
	case err != nil || born.Day() != m.BirthDay:
		fields.Add("tanggal_lahir", "Birth date does not exist.")
	case born.After(civil.DateOf(s.now()).Time):
		fields.Add("tahun_lahir", "Birth date cannot be in the future.")
	}
	return fields.OrNil()
}
