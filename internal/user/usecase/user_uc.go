package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wanderstay/listing-service/internal/listing/domain"
	"github.com/wanderstay/listing-service/internal/platform/logger"
)

// Session lifetime mirrors the 7-day cookie the web frontend sets.
const tokenTTL = 7 * 24 * time.Hour

// UserUsecase implements the credential capability the listing core
// consumes: registration, login and token issuing. The core itself only
// ever sees the resulting opaque user ID.
type UserUsecase struct {
	repo      domain.UserRepository
	jwtSecret string
	logger    *logger.Logger
}

func NewUserUsecase(repo domain.UserRepository, jwtSecret string, log *logger.Logger) *UserUsecase {
	return &UserUsecase{repo: repo, jwtSecret: jwtSecret, logger: log}
}

// Register stores a new user with a bcrypt-hashed password.
func (uc *UserUsecase) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	uc.logger.Info("UserUsecase.Register: registering user", zap.String("email", email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		uc.logger.Warn("UserUsecase.Register: create failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// Login validates the credentials and issues a signed token. Unknown
// email and wrong password are indistinguishable to the caller.
func (uc *UserUsecase) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		uc.logger.Warn("UserUsecase.Login: bad password", zap.String("email", email))
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := uc.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (uc *UserUsecase) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(uc.jwtSecret))
}
