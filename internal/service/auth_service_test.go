package service

import (
	"context"
	"testing"
	"time"

	"mathwave_backend/internal/config"
	"mathwave_backend/internal/model"
	"mathwave_backend/internal/repository"
	"mathwave_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = 15 * time.Minute
	cfg.JWT.RefreshExpireTime = 7 * 24 * time.Hour
	cfg.Server.FrontendURL = "http://localhost:3000"

	svc := NewAuthService(db, repository.NewUserRepository(db), nil,
		&ConsoleMailer{logger: zap.NewNop()}, cfg, zap.NewNop())
	return svc, db
}

func TestSignupCreatesRoleProfile(t *testing.T) {
	s, db := newAuthService(t)

	user, err := s.Signup(SignupReq{
		Email:      "Student@Example.com",
		Password:   "secret123",
		Role:       "STUDENT",
		FullName:   "Ada",
		Age:        12,
		GradeLevel: intPtr(6),
		PhoneNo:    "123456",
	})
	require.NoError(t, err)

	// 邮箱统一小写存储
	assert.Equal(t, "student@example.com", user.Email)
	assert.False(t, user.IsVerified)
	assert.NotEmpty(t, user.EmailCode)

	var profile model.StudentProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, "Ada", profile.FullName)
	require.NotNil(t, profile.GradeLevel)
	assert.Equal(t, 6, *profile.GradeLevel)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	s, _ := newAuthService(t)

	req := SignupReq{Email: "dup@example.com", Password: "secret123", Role: "TEACHER", FullName: "T"}
	_, err := s.Signup(req)
	require.NoError(t, err)

	_, err = s.Signup(req)
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestVerifyEmailFlow(t *testing.T) {
	s, _ := newAuthService(t)

	user, err := s.Signup(SignupReq{Email: "v@example.com", Password: "secret123", Role: "STUDENT", FullName: "V"})
	require.NoError(t, err)

	// 错误验证码
	err = s.VerifyEmail(user.Email, "000000")
	assert.ErrorIs(t, err, util.ErrInvalidOTP)

	require.NoError(t, s.VerifyEmail(user.Email, user.EmailCode))

	// 再次验证
	err = s.VerifyEmail(user.Email, user.EmailCode)
	assert.ErrorIs(t, err, util.ErrAlreadyVerified)

	err = s.VerifyEmail("missing@example.com", "123456")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	s, _ := newAuthService(t)

	user, err := s.Signup(SignupReq{Email: "l@example.com", Password: "secret123", Role: "STUDENT", FullName: "L"})
	require.NoError(t, err)

	_, _, err = s.Login(user.Email, "secret123")
	assert.ErrorIs(t, err, util.ErrEmailNotVerified)

	require.NoError(t, s.VerifyEmail(user.Email, user.EmailCode))

	loggedIn, tokens, err := s.Login(user.Email, "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	// 刷新令牌可换新的访问令牌
	access, err := s.RefreshToken(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s, _ := newAuthService(t)

	user, err := s.Signup(SignupReq{Email: "b@example.com", Password: "secret123", Role: "STUDENT", FullName: "B"})
	require.NoError(t, err)
	require.NoError(t, s.VerifyEmail(user.Email, user.EmailCode))

	_, _, err = s.Login(user.Email, "wrong-password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, _, err = s.Login("ghost@example.com", "whatever")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestResendOTPRotatesCode(t *testing.T) {
	s, db := newAuthService(t)

	user, err := s.Signup(SignupReq{Email: "r@example.com", Password: "secret123", Role: "STUDENT", FullName: "R"})
	require.NoError(t, err)
	oldCode := user.EmailCode

	require.NoError(t, s.ResendOTP(context.Background(), user.Email))

	var refreshed model.User
	require.NoError(t, db.First(&refreshed, user.ID).Error)
	assert.NotEmpty(t, refreshed.EmailCode)
	assert.NotEqual(t, oldCode, refreshed.EmailCode)

	require.NoError(t, s.VerifyEmail(user.Email, refreshed.EmailCode))
	assert.ErrorIs(t, s.ResendOTP(context.Background(), user.Email), util.ErrAlreadyVerified)
}
