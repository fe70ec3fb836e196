package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mathwave_backend/internal/config"
	"mathwave_backend/internal/model"
	"mathwave_backend/internal/repository"
	"mathwave_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	otpTTL            = 10 * time.Minute
	otpResendInterval = time.Minute
	resetTokenTTL     = time.Hour
)

type AuthService struct {
	DB       *gorm.DB
	UserRepo *repository.UserRepository
	Redis    *redis.Client
	Mailer   Mailer
	Config   *config.Config
	Logger   *zap.Logger
}

func NewAuthService(db *gorm.DB, userRepo *repository.UserRepository, rdb *redis.Client, mailer Mailer, cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{DB: db, UserRepo: userRepo, Redis: rdb, Mailer: mailer, Config: cfg, Logger: logger}
}

type SignupReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=STUDENT TEACHER PARENT"`
	FullName string `json:"full_name" binding:"required"`

	// 学生档案字段
	Age        int    `json:"age"`
	GradeLevel *int   `json:"grade_level"`
	PhoneNo    string `json:"phone_no"`
	RegionID   *uint  `json:"region_id"`

	// 教师档案字段
	Bio string `json:"bio"`
}

// Signup 注册账号并按角色建档。用户与档案在同一事务内落库，
// 注册成功后发送邮箱验证码。
func (s *AuthService) Signup(req SignupReq) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.UserRepo.FindByEmail(email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	code := util.GenerateOTP()
	expiresAt := time.Now().Add(otpTTL)

	user := &model.User{
		Email:              email,
		PasswordHash:       string(hash),
		Role:               model.UserRole(req.Role),
		EmailCode:          code,
		EmailCodeExpiresAt: &expiresAt,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		switch user.Role {
		case model.Student:
			return tx.Create(&model.StudentProfile{
				UserID:     user.ID,
				FullName:   req.FullName,
				Age:        req.Age,
				GradeLevel: req.GradeLevel,
				PhoneNo:    req.PhoneNo,
				RegionID:   req.RegionID,
			}).Error
		case model.Teacher:
			return tx.Create(&model.TeacherProfile{
				UserID:   user.ID,
				FullName: req.FullName,
				Bio:      req.Bio,
			}).Error
		case model.Parent:
			return tx.Create(&model.ParentProfile{
				UserID:   user.ID,
				FullName: req.FullName,
				PhoneNo:  req.PhoneNo,
			}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 邮件失败不回滚注册，用户可以走重发验证码
	if err := s.Mailer.SendOTP(email, code); err != nil {
		s.Logger.Error("发送验证码失败", zap.String("email", email), zap.Error(err))
	}

	return user, nil
}

func (s *AuthService) VerifyEmail(email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrUserNotFound
		}
		return err
	}

	if user.IsVerified {
		return util.ErrAlreadyVerified
	}
	if user.EmailCode == "" || user.EmailCode != code ||
		user.EmailCodeExpiresAt == nil || time.Now().After(*user.EmailCodeExpiresAt) {
		return util.ErrInvalidOTP
	}

	return s.UserRepo.MarkEmailVerified(email)
}

func resendThrottleKey(email string) string {
	return "otpresend:" + email
}

// ResendOTP 重新生成并发送验证码，同一邮箱一分钟内只放行一次。
// 未配置 Redis 时不做限流。
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if s.Redis != nil {
		ok, err := s.Redis.SetNX(ctx, resendThrottleKey(email), 1, otpResendInterval).Result()
		if err != nil {
			return err
		}
		if !ok {
			return util.ErrOTPThrottled
		}
	}

	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrUserNotFound
		}
		return err
	}
	if user.IsVerified {
		return util.ErrAlreadyVerified
	}

	code := util.GenerateOTP()
	if err := s.UserRepo.SetEmailCode(email, code, time.Now().Add(otpTTL)); err != nil {
		return err
	}

	return s.Mailer.SendOTP(email, code)
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login 校验凭据并签发访问/刷新双令牌。未验证邮箱的账号拒绝登录。
func (s *AuthService) Login(email, password string) (*model.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, util.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, util.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, nil, util.ErrEmailNotVerified
	}

	access, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.RefreshExpireTime)
	if err != nil {
		return nil, nil, err
	}

	return user, &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshToken 用有效的刷新令牌换新的访问令牌
func (s *AuthService) RefreshToken(refreshToken string) (string, error) {
	claims, err := util.ParseJWT(refreshToken, s.Config.JWT.Secret)
	if err != nil {
		return "", util.ErrInvalidCredentials
	}

	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		return "", util.ErrInvalidCredentials
	}

	return util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
}

func resetTokenKey(token string) string {
	return "pwreset:" + token
}

// ForgotPassword 为邮箱生成一次性重置令牌，存 Redis 一小时并发邮件。
// 邮箱不存在时同样返回成功，避免账号枚举。
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	token, err := util.GenerateResetToken()
	if err != nil {
		return err
	}

	if err := s.Redis.Set(ctx, resetTokenKey(token), user.ID, resetTokenTTL).Err(); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.Config.Server.FrontendURL, token)
	return s.Mailer.SendPasswordReset(email, resetURL)
}

// ResetPassword 消费重置令牌并更新密码，令牌用后即删
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.Redis.Get(ctx, resetTokenKey(token)).Uint64()
	if err != nil {
		if err == redis.Nil {
			return util.ErrInvalidResetToken
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.UserRepo.UpdatePassword(uint(userID), string(hash)); err != nil {
		return err
	}

	return s.Redis.Del(ctx, resetTokenKey(token)).Err()
}

// Me 返回当前用户及其角色档案
func (s *AuthService) Me(claims *util.Claims) (map[string]interface{}, error) {
	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	out := map[string]interface{}{
		"id":          user.ID,
		"email":       user.Email,
		"role":        user.Role,
		"is_verified": user.IsVerified,
	}

	switch user.Role {
	case model.Student:
		if p, err := s.UserRepo.FindStudentProfile(user.ID); err == nil {
			out["profile"] = p
		}
	case model.Teacher:
		if p, err := s.UserRepo.FindTeacherProfile(user.ID); err == nil {
			out["profile"] = p
		}
	case model.Parent:
		if p, err := s.UserRepo.FindParentProfile(user.ID); err == nil {
			out["profile"] = p
		}
	}

	return out, nil
}
