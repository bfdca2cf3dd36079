package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/media-album/internal/domain/captcha"
	apperrors "github.com/yanqian/media-album/pkg/errors"
	"github.com/yanqian/media-album/pkg/logger"
)

type stubRepo struct {
	users     map[string]User
	createErr error
}

func newStubRepo(users ...User) *stubRepo {
	repo := &stubRepo{users: make(map[string]User)}
	for _, user := range users {
		repo.users[user.UserName] = user
	}
	return repo
}

func (r *stubRepo) Create(_ context.Context, user User) (User, error) {
	if r.createErr != nil {
		return User{}, r.createErr
	}
	if _, exists := r.users[user.UserName]; exists {
		return User{}, ErrUsernameExists
	}
	user.ID = int64(len(r.users) + 1)
	r.users[user.UserName] = user
	return user, nil
}

func (r *stubRepo) FindByUserName(_ context.Context, userName string) (User, bool, error) {
	user, ok := r.users[userName]
	return user, ok, nil
}

func (r *stubRepo) GetByID(_ context.Context, id int64) (User, bool, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, true, nil
		}
	}
	return User{}, false, nil
}

func (r *stubRepo) Update(_ context.Context, user User) error {
	for name, stored := range r.users {
		if stored.ID == user.ID {
			user.UserName = name
			r.users[name] = user
			return nil
		}
	}
	return ErrUserNotFound
}

func (r *stubRepo) List(_ context.Context) ([]User, error) {
	users := make([]User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

func (r *stubRepo) Delete(_ context.Context, id int64) error {
	for name, user := range r.users {
		if user.ID == id {
			delete(r.users, name)
			return nil
		}
	}
	return ErrUserNotFound
}

type stubVerifier struct {
	err   error
	calls int
}

func (v *stubVerifier) Verify(_ context.Context, _, _ string) error {
	v.calls++
	return v.err
}

func newServiceUnderTest(t *testing.T, repo Repository, verifier ChallengeVerifier) (Service, *TokenCodec) {
	t.Helper()
	cfg := Config{Secret: "service-test-secret", TokenTTL: time.Hour, PasswordScheme: SchemeMD5}
	codec, err := NewTokenCodec(cfg)
	require.NoError(t, err)
	return NewService(cfg, repo, codec, verifier, logger.New()), codec
}

func storedUser(t *testing.T, username, password string, role Role) User {
	t.Helper()
	hash, err := HashPassword(SchemeMD5, password)
	require.NoError(t, err)
	return User{ID: 1, UserName: username, PasswordHash: hash, Role: role, Status: 1}
}

func TestService_LoginSuccess(t *testing.T) {
	repo := newStubRepo(storedUser(t, "alice", "secret", RoleUser))
	verifier := &stubVerifier{}
	svc, codec := newServiceUnderTest(t, repo, verifier)

	result, err := svc.Login(context.Background(), LoginRequest{
		Username:  "alice",
		Password:  "secret",
		Captcha:   "ab3x",
		SessionID: "sess-1",
	})
	require.NoError(t, err)
	require.Equal(t, 1, verifier.calls)
	require.Equal(t, "alice", result.UserName)
	require.Equal(t, "alice", result.Nickname) // falls back to the username
	require.Equal(t, DefaultAvatar, result.Avatar)

	subject, ok := codec.Subject(result.Token)
	require.True(t, ok)
	require.Equal(t, "alice", subject)
	require.True(t, codec.Validate(result.Token, "alice", time.Now()))
}

func TestService_LoginEmptyFields(t *testing.T) {
	svc, _ := newServiceUnderTest(t, newStubRepo(), &stubVerifier{})

	_, err := svc.Login(context.Background(), LoginRequest{Username: "", Password: "x", Captcha: "y", SessionID: "s"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "x", Captcha: "", SessionID: "s"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestService_LoginMissingSession(t *testing.T) {
	svc, _ := newServiceUnderTest(t, newStubRepo(), &stubVerifier{})

	_, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "x", Captcha: "y"})
	require.True(t, apperrors.IsCode(err, "captcha_expired"))
}

func TestService_LoginChallengeCheckedBeforeCredentials(t *testing.T) {
	// The challenge is verified first, so even a correct password with an
	// expired challenge fails on the challenge.
	repo := newStubRepo(storedUser(t, "alice", "secret", RoleUser))
	verifier := &stubVerifier{err: captcha.ErrChallengeExpired}
	svc, _ := newServiceUnderTest(t, repo, verifier)

	_, err := svc.Login(context.Background(), LoginRequest{
		Username: "alice", Password: "secret", Captcha: "ab3x", SessionID: "sess-1",
	})
	require.True(t, apperrors.IsCode(err, "captcha_expired"))
}

func TestService_LoginChallengeMismatch(t *testing.T) {
	repo := newStubRepo(storedUser(t, "alice", "secret", RoleUser))
	verifier := &stubVerifier{err: captcha.ErrChallengeMismatch}
	svc, _ := newServiceUnderTest(t, repo, verifier)

	_, err := svc.Login(context.Background(), LoginRequest{
		Username: "alice", Password: "secret", Captcha: "wrong", SessionID: "sess-1",
	})
	require.True(t, apperrors.IsCode(err, "captcha_mismatch"))
}

func TestService_LoginBadCredentialsSameMessage(t *testing.T) {
	repo := newStubRepo(storedUser(t, "alice", "secret", RoleUser))
	svc, _ := newServiceUnderTest(t, repo, &stubVerifier{})

	_, unknownErr := svc.Login(context.Background(), LoginRequest{
		Username: "nobody", Password: "secret", Captcha: "ab3x", SessionID: "sess-1",
	})
	_, wrongErr := svc.Login(context.Background(), LoginRequest{
		Username: "alice", Password: "nope", Captcha: "ab3x", SessionID: "sess-1",
	})

	// Unknown user and wrong password are indistinguishable to the caller.
	require.True(t, apperrors.IsCode(unknownErr, "invalid_credentials"))
	require.True(t, apperrors.IsCode(wrongErr, "invalid_credentials"))
	require.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestService_RegisterAndDuplicate(t *testing.T) {
	repo := newStubRepo()
	svc, _ := newServiceUnderTest(t, repo, &stubVerifier{})

	err := svc.Register(context.Background(), RegisterRequest{Username: "bob", Password: "pw"})
	require.NoError(t, err)

	created, found, err := repo.FindByUserName(context.Background(), "bob")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, RoleGuest, created.Role)
	require.NotEqual(t, "pw", created.PasswordHash)

	err = svc.Register(context.Background(), RegisterRequest{Username: "bob", Password: "pw2"})
	require.True(t, apperrors.IsCode(err, "username_exists"))
}

func TestService_ListUsersKeywordAndPaging(t *testing.T) {
	repo := newStubRepo(
		User{ID: 1, UserName: "alice", Nickname: "Alice"},
		User{ID: 2, UserName: "bob", Nickname: "Bobby"},
		User{ID: 3, UserName: "carol", Nickname: "ali-cat"},
	)
	svc, _ := newServiceUnderTest(t, repo, &stubVerifier{})

	users, total, err := svc.ListUsers(context.Background(), "ali", 1, 10)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, users, 2)

	users, total, err = svc.ListUsers(context.Background(), "", 2, 2)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, users, 1)
}

func TestService_UpdateUserStatusValidation(t *testing.T) {
	repo := newStubRepo(User{ID: 1, UserName: "alice", Status: 1})
	svc, _ := newServiceUnderTest(t, repo, &stubVerifier{})

	require.True(t, apperrors.IsCode(svc.UpdateUserStatus(context.Background(), 1, 7), "invalid_input"))
	require.NoError(t, svc.UpdateUserStatus(context.Background(), 1, 0))

	updated, _, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 0, updated.Status)
}

func TestService_UpdateUserRoleValidation(t *testing.T) {
	repo := newStubRepo(User{ID: 1, UserName: "alice", Role: RoleGuest})
	svc, _ := newServiceUnderTest(t, repo, &stubVerifier{})

	require.True(t, apperrors.IsCode(svc.UpdateUserRole(context.Background(), 1, Role(9)), "invalid_input"))
	require.NoError(t, svc.UpdateUserRole(context.Background(), 1, RoleAdmin))

	updated, _, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, updated.Role)
}
