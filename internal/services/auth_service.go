package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"shophub_backend/internal/auth"
	"shophub_backend/internal/logger"
	"shophub_backend/internal/models"
	"shophub_backend/internal/repositories"
	"shophub_backend/internal/services/dto"
	"shophub_backend/internal/sms"
	"shophub_backend/pkg/apperrors"

	"golang.org/x/crypto/bcrypt"
)

// ============================================
// АУТЕНТИФИКАЦИЯ ПО OTP
// ============================================

type AuthService interface {
	// SendOtp создает пользователя по номеру (если его еще нет),
	// выпускает шестизначный код и отдает его провайдеру SMS.
	// Пока предыдущий код не истек, новый не выпускается.
	SendOtp(ctx context.Context, req *dto.SendOtpRequest) (*dto.SendOtpResponse, error)

	// VerifyOtp сверяет код, помечает пользователя верифицированным,
	// удаляет строку OTP и выдает пару токенов
	VerifyOtp(ctx context.Context, req *dto.VerifyOtpRequest) (*dto.TokenPairResponse, error)

	RefreshTokens(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenPairResponse, error)
	Logout(ctx context.Context, userID string) error
}

type authService struct {
	userRepo repositories.UserRepository
	otpRepo  repositories.OtpRepository
	tokens   *auth.TokenManager
	sms      sms.Provider
	tx       repositories.TxManager
	otpTTL   time.Duration
}

func NewAuthService(
	userRepo repositories.UserRepository,
	otpRepo repositories.OtpRepository,
	tokens *auth.TokenManager,
	smsProvider sms.Provider,
	tx repositories.TxManager,
	otpTTL time.Duration,
) AuthService {
	if otpTTL <= 0 {
		otpTTL = 2 * time.Minute
	}
	return &authService{
		userRepo: userRepo,
		otpRepo:  otpRepo,
		tokens:   tokens,
		sms:      smsProvider,
		tx:       tx,
		otpTTL:   otpTTL,
	}
}

func (s *authService) SendOtp(ctx context.Context, req *dto.SendOtpRequest) (*dto.SendOtpResponse, error) {
	user, err := s.userRepo.FindByMobile(ctx, req.Mobile)
	if err != nil {
		if !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrDatabaseUnavailable(err)
		}
		user = &models.User{
			Mobile: req.Mobile,
			Status: models.UserStatusRegistered,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, apperrors.ErrDatabaseUnavailable(err)
		}
	}

	now := time.Now()
	existing, err := s.otpRepo.FindByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, repositories.ErrOtpNotFound) {
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	if existing != nil && !existing.Expired(now) {
		return nil, apperrors.ErrOtpNotExpired
	}

	code, err := generateOtpCode()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	otp := existing
	if otp == nil {
		otp = &models.Otp{UserID: user.ID}
	}
	otp.Code = code
	otp.ExpiresAt = now.Add(s.otpTTL)
	if err := s.otpRepo.Save(ctx, otp); err != nil {
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}

	if err := s.sms.SendOtp(ctx, user.Mobile, code); err != nil {
		logger.CtxWithError(ctx, "otp delivery failed", err, "mobile", user.Mobile)
	}

	return &dto.SendOtpResponse{
		Mobile:    user.Mobile,
		ExpiresIn: int(s.otpTTL.Seconds()),
	}, nil
}

func (s *authService) VerifyOtp(ctx context.Context, req *dto.VerifyOtpRequest) (*dto.TokenPairResponse, error) {
	user, err := s.userRepo.FindByMobile(ctx, req.Mobile)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidOtp
		}
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}

	otp, err := s.otpRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrOtpNotFound) {
			return nil, apperrors.ErrInvalidOtp
		}
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	if otp.Expired(time.Now()) || otp.Code != req.Code {
		return nil, apperrors.ErrInvalidOtp
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if !user.IsVerified {
			if err := s.userRepo.SetVerified(txCtx, user.ID); err != nil {
				return apperrors.ErrDatabaseUnavailable(err)
			}
		}
		if err := s.otpRepo.DeleteByID(txCtx, otp.ID); err != nil {
			return apperrors.ErrDatabaseUnavailable(err)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(pair.RefreshToken), bcrypt.DefaultCost)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if err := s.userRepo.SetRefreshToken(txCtx, user.ID, string(hashed)); err != nil {
			return apperrors.ErrDatabaseUnavailable(err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	logger.CtxInfo(ctx, "user logged in", "user_id", user.ID)
	return pair, nil
}

func (s *authService) RefreshTokens(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenPairResponse, error) {
	claims, err := s.tokens.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	if user.RefreshToken == "" {
		return nil, apperrors.ErrInvalidRefreshToken
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.RefreshToken), []byte(req.RefreshToken)); err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(pair.RefreshToken), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, string(hashed)); err != nil {
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	return pair, nil
}

func (s *authService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.SetRefreshToken(ctx, userID, ""); err != nil {
		return apperrors.ErrDatabaseUnavailable(err)
	}
	return nil
}

func (s *authService) issueTokens(user *models.User) (*dto.TokenPairResponse, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Mobile)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Mobile)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       user.ID,
	}, nil
}

// generateOtpCode выпускает шестизначный код на криптографическом
// источнике случайности
func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
