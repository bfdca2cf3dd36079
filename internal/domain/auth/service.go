package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/media-album/internal/domain/captcha"
	apperrors "github.com/yanqian/media-album/pkg/errors"
)

// DefaultAvatar is served for every account; per-user avatars never made it
// into the schema.
const DefaultAvatar = "/static/images/user-avatar.svg"

// ChallengeVerifier consumes a login challenge bound to a session.
type ChallengeVerifier interface {
	Verify(ctx context.Context, sessionID, input string) error
}

// Service exposes authentication and account workflows.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResult, error)
	Register(ctx context.Context, req RegisterRequest) error
	GetUser(ctx context.Context, id int64) (User, error)
	UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) error
	ListUsers(ctx context.Context, keyword string, page, pageSize int) ([]User, int, error)
	DeleteUser(ctx context.Context, id int64) error
	UpdateUserStatus(ctx context.Context, id int64, status int) error
	UpdateUserRole(ctx context.Context, id int64, role Role) error
}

type service struct {
	cfg        Config
	repo       Repository
	codec      *TokenCodec
	challenges ChallengeVerifier
	logger     *slog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg Config, repo Repository, codec *TokenCodec, challenges ChallengeVerifier, logger *slog.Logger) Service {
	return &service{
		cfg:        cfg,
		repo:       repo,
		codec:      codec,
		challenges: challenges,
		logger:     logger.With("component", "auth.service"),
	}
}

// Login runs the challenge check, then the credential check, then issues a
// token. The challenge is consumed even when the credentials turn out bad.
func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return LoginResult{}, apperrors.Wrap("invalid_input", "username or password cannot be empty", nil)
	}
	if strings.TrimSpace(req.Captcha) == "" {
		return LoginResult{}, apperrors.Wrap("invalid_input", "captcha cannot be empty", nil)
	}
	if req.SessionID == "" {
		return LoginResult{}, apperrors.Wrap("captcha_expired", "session expired, refresh the page", nil)
	}

	if err := s.challenges.Verify(ctx, req.SessionID, req.Captcha); err != nil {
		switch {
		case errors.Is(err, captcha.ErrChallengeExpired):
			return LoginResult{}, apperrors.Wrap("captcha_expired", "captcha expired, request a new one", err)
		case errors.Is(err, captcha.ErrChallengeMismatch):
			return LoginResult{}, apperrors.Wrap("captcha_mismatch", "captcha incorrect, try again", err)
		default:
			return LoginResult{}, apperrors.Wrap("auth_error", "failed to verify captcha", err)
		}
	}

	user, found, err := s.repo.FindByUserName(ctx, username)
	if err != nil {
		return LoginResult{}, apperrors.Wrap("auth_error", "failed to fetch user", err)
	}
	// One generic message for unknown user and wrong password.
	if !found || !CheckPassword(user.PasswordHash, req.Password) {
		return LoginResult{}, apperrors.Wrap("invalid_credentials", "invalid username or password", nil)
	}

	token, err := s.codec.Issue(user.UserName, user.ID, user.Role, time.Now())
	if err != nil {
		return LoginResult{}, apperrors.Wrap("auth_error", "failed to sign token", err)
	}

	nickname := user.Nickname
	if nickname == "" {
		nickname = user.UserName
	}
	s.logger.Info("user logged in", "user_id", user.ID, "username", user.UserName)
	return LoginResult{
		UserID:   user.ID,
		UserName: user.UserName,
		Nickname: nickname,
		Avatar:   DefaultAvatar,
		Role:     user.Role,
		Token:    token,
	}, nil
}

// Register creates a new account with the guest role.
func (s *service) Register(ctx context.Context, req RegisterRequest) error {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return apperrors.Wrap("invalid_input", "username or password cannot be empty", nil)
	}
	_, exists, err := s.repo.FindByUserName(ctx, username)
	if err != nil {
		return apperrors.Wrap("auth_error", "failed to check user", err)
	}
	if exists {
		return apperrors.Wrap("username_exists", "username exists", nil)
	}
	hashed, err := HashPassword(s.cfg.PasswordScheme, req.Password)
	if err != nil {
		return apperrors.Wrap("auth_error", "failed to hash password", err)
	}
	_, err = s.repo.Create(ctx, User{
		UserName:     username,
		Nickname:     strings.TrimSpace(req.Nickname),
		PasswordHash: hashed,
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         RoleGuest,
		Status:       1,
	})
	if err != nil {
		if errors.Is(err, ErrUsernameExists) {
			return apperrors.Wrap("username_exists", "username exists", err)
		}
		return apperrors.Wrap("auth_error", "failed to create user", err)
	}
	return nil
}

func (s *service) GetUser(ctx context.Context, id int64) (User, error) {
	user, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, apperrors.Wrap("auth_error", "failed to load user", err)
	}
	if !found {
		return User{}, apperrors.Wrap("user_not_found", "user not found", nil)
	}
	return user, nil
}

// UpdateProfile writes the user-editable fields. Username, password, role,
// status and create time stay as stored.
func (s *service) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) error {
	user, found, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return apperrors.Wrap("auth_error", "failed to load user", err)
	}
	if !found {
		return apperrors.Wrap("user_not_found", "user not found", nil)
	}
	user.Nickname = strings.TrimSpace(upd.Nickname)
	user.Email = strings.TrimSpace(upd.Email)
	user.Phone = strings.TrimSpace(upd.Phone)
	if err := s.repo.Update(ctx, user); err != nil {
		return apperrors.Wrap("auth_error", "failed to update user", err)
	}
	return nil
}

// ListUsers filters by username/nickname substring and pages in memory.
func (s *service) ListUsers(ctx context.Context, keyword string, page, pageSize int) ([]User, int, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, 0, apperrors.Wrap("auth_error", "failed to list users", err)
	}
	if keyword != "" {
		filtered := users[:0]
		for _, user := range users {
			if strings.Contains(user.UserName, keyword) || strings.Contains(user.Nickname, keyword) {
				filtered = append(filtered, user)
			}
		}
		users = filtered
	}
	total := len(users)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	start := (page - 1) * pageSize
	if start >= total {
		return []User{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return users[start:end], total, nil
}

func (s *service) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return apperrors.Wrap("user_not_found", "user not found", err)
		}
		return apperrors.Wrap("auth_error", "failed to delete user", err)
	}
	return nil
}

func (s *service) UpdateUserStatus(ctx context.Context, id int64, status int) error {
	if status != 0 && status != 1 {
		return apperrors.Wrap("invalid_input", "status must be 0 or 1", nil)
	}
	user, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return apperrors.Wrap("auth_error", "failed to load user", err)
	}
	if !found {
		return apperrors.Wrap("user_not_found", "user not found", nil)
	}
	user.Status = status
	if err := s.repo.Update(ctx, user); err != nil {
		return apperrors.Wrap("auth_error", "failed to update user", err)
	}
	return nil
}

func (s *service) UpdateUserRole(ctx context.Context, id int64, role Role) error {
	if !role.Valid() {
		return apperrors.Wrap("invalid_input", "role must be 1, 2 or 3", nil)
	}
	user, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return apperrors.Wrap("auth_error", "failed to load user", err)
	}
	if !found {
		return apperrors.Wrap("user_not_found", "user not found", nil)
	}
	user.Role = role
	if err := s.repo.Update(ctx, user); err != nil {
		return apperrors.Wrap("auth_error", "failed to update user", err)
	}
	return nil
}
