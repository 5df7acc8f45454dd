// internal/service/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gymease-service/internal/domain/auth"
	"gymease-service/internal/domain/member"
	"gymease-service/internal/pkg/clock"
	"gymease-service/internal/pkg/codegen"
	xerrors "gymease-service/internal/pkg/errors"
	"gymease-service/internal/pkg/jwt"
	"gymease-service/internal/pkg/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const badCredentials = "Unable to log in with provided credentials."

type Store interface {
	FindUserByUsername(ctx context.Context, username string) (*auth.User, error)
	FindUserByID(ctx context.Context, id int64) (*auth.User, error)
	GetProfile(ctx context.Context, userID int64) (*auth.Profile, error)
	Register(ctx context.Context, u *auth.User, p *auth.Profile, m *member.Member) error
	CreateStaff(ctx context.Context, u *auth.User) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type Sessions interface {
	CreateSession(ctx context.Context, s *session.SessionData) error
	GetSession(ctx context.Context, userID int64, jti string) (*session.SessionData, error)
	InvalidateSession(ctx context.Context, userID int64, jti string, expiresAt time.Time) error
	InvalidateAllUserSessions(ctx context.Context, userID int64) error
	IsTokenBlacklisted(ctx context.Context, jti string) (bool, error)
}

type LoginLimiter interface {
	CheckLoginAttempt(ctx context.Context, ip, username string) (bool, int64, error)
	ResetLoginAttempts(ctx context.Context, ip, username string) error
}

type Notifier interface {
	Registered(ctx context.Context, username, phone, memberCode string)
}

type AuthService struct {
	repo        Store
	tokens      *jwt.Manager
	sessions    Sessions
	rateLimiter LoginLimiter
	notifier    Notifier
	now         clock.Func
	logger      *zap.Logger
}

func NewAuthService(
	repo Store,
	tokens *jwt.Manager,
	sessions Sessions,
	rateLimiter LoginLimiter,
	notifier Notifier,
	now clock.Func,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		repo:        repo,
		tokens:      tokens,
		sessions:    sessions,
		rateLimiter: rateLimiter,
		notifier:    notifier,
		now:         now,
		logger:      logger,
	}
}

// ========== Registration ==========

// Register creates an account with its profile. A member account also gets a
// member record. Only staff may create staff accounts.
func (s *AuthService) Register(ctx context.Context, req *auth.RegisterRequest, byStaff bool) (*auth.User, error) {
	if req.Role == auth.RoleStaff && !byStaff {
		return nil, fmt.Errorf("%w: only staff can create staff accounts", xerrors.ErrForbidden)
	}

	birth, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, xerrors.FieldErrors{"tanggal_lahir": {"Date has wrong format. Use YYYY-MM-DD."}}
	}
	if birth.After(s.now()) {
		return nil, xerrors.FieldErrors{"tanggal_lahir": {"Birth date cannot be in the future."}}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &auth.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		IsStaff:      req.Role == auth.RoleStaff,
	}
	p := &auth.Profile{
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		BirthPlace: req.BirthPlace,
		BirthDate:  req.BirthDate,
		Role:       req.Role,
	}

	if u.IsStaff {
		err = s.repo.Register(ctx, u, p, nil)
	} else {
		m := &member.Member{
			Name:       displayName(u),
			Address:    req.Address,
			BirthPlace: req.BirthPlace,
			BirthDay:   birth.Day(),
			BirthMonth: int(birth.Month()),
			BirthYear:  birth.Year(),
			Phone:      req.Phone,
			IsActive:   true,
		}
		_, err = codegen.Insert(codegen.PrefixMember, 6, func(code string) error {
			m.Code = code
			return s.repo.Register(ctx, u, p, m)
		})
	}
	if err != nil {
		return nil, err
	}
	u.Profile = p

	s.logger.Info("account registered",
		zap.Int64("user_id", u.ID),
		zap.String("username", u.Username),
		zap.String("role", req.Role),
	)
	s.notifier.Registered(ctx, u.Username, p.Phone, p.MemberCode)

	return u, nil
}

// ========== Login / Logout ==========

// Login checks credentials and issues a token backed by a Redis session.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	allowed, _, err := s.rateLimiter.CheckLoginAttempt(ctx, req.IPAddress, req.Username)
	if err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("%w: too many login attempts, try again in 15 minutes", xerrors.ErrRateLimited)
	}

	u, err := s.repo.FindUserByUsername(ctx, req.Username)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, credentialsError()
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, credentialsError()
	}
	if !u.IsActive {
		return nil, xerrors.FieldErrors{"non_field_errors": {"User account is disabled."}}
	}

	if err := s.rateLimiter.ResetLoginAttempts(ctx, req.IPAddress, req.Username); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	if p, err := s.repo.GetProfile(ctx, u.ID); err == nil {
		u.Profile = p
	} else if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}

	var memberID *int64
	if u.Profile != nil {
		memberID = u.Profile.MemberID
	}

	token, jti, err := s.tokens.Generator.GenerateAccessToken(jwt.Subject{
		UserID:   u.ID,
		Username: u.Username,
		Roles:    u.Roles(),
		MemberID: memberID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := s.now()
	sess := &session.SessionData{
		JTI:            jti,
		UserID:         u.ID,
		Username:       u.Username,
		Roles:          u.Roles(),
		MemberID:       memberID,
		IPAddress:      req.IPAddress,
		UserAgent:      req.UserAgent,
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(s.tokens.Generator.TTL),
	}
	if err := s.sessions.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		s.logger.Error("failed to update last login", zap.Error(err))
	}
	u.LastLogin = &now

	s.logger.Info("user logged in",
		zap.Int64("user_id", u.ID),
		zap.String("ip", req.IPAddress),
	)

	return &auth.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.tokens.Generator.TTL.Seconds()),
		User:      u,
	}, nil
}

// Logout revokes the token the request was made with.
func (s *AuthService) Logout(ctx context.Context, claims *jwt.Claims) error {
	expiresAt := s.now().Add(s.tokens.Generator.TTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.sessions.InvalidateSession(ctx, claims.UserID, claims.ID, expiresAt); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	return nil
}

// LogoutAll ends every session of the user.
func (s *AuthService) LogoutAll(ctx context.Context, userID int64) error {
	if err := s.sessions.InvalidateAllUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("failed to invalidate sessions: %w", err)
	}
	return nil
}

// ValidateToken verifies the signature and that the session is still live.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.tokens.Verifier.VerifyAccessToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrUnauthorized, err)
	}

	blacklisted, err := s.sessions.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		return nil, xerrors.ErrSessionExpired
	}

	if _, err := s.sessions.GetSession(ctx, claims.UserID, claims.ID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, xerrors.ErrSessionExpired
		}
		return nil, err
	}
	return claims, nil
}

// Me returns the account behind a token together with its profile.
func (s *AuthService) Me(ctx context.Context, userID int64) (*auth.User, error) {
	u, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}
	u.Profile = p
	return u, nil
}

// ========== Helpers ==========

func credentialsError() error {
	return xerrors.FieldErrors{"non_field_errors": {badCredentials}}
}

func displayName(u *auth.User) string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}
