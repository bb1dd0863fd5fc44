package services

import (
	"context"
	"fmt"
	"html"
	"time"

	"planora-project/backend/logging"
	"planora-project/backend/models"
	"planora-project/backend/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/rand"
)

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, user models.User) error
	ActivateUser(ctx context.Context, email string) error
}

// UserService implements email/password signup with a verification code and
// JWT login.
type UserService struct {
	store     UserStore
	blacklist map[string]bool
	Now       func() time.Time
}

func NewUserService(store UserStore, blacklist map[string]bool) *UserService {
	return &UserService{
		store:     store,
		blacklist: blacklist,
		Now:       time.Now,
	}
}

// RegisterUser stores the user inactive with a short-lived verification
// code. The code would normally go out by email; it is logged here so local
// setups work without an SMTP account.
func (s *UserService) RegisterUser(ctx context.Context, email, username, password string) error {
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return ErrUserExists
	}

	if err := utils.ValidatePassword(password, s.blacklist); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Now()
	user := models.User{
		ID:                 uuid.NewString(),
		Email:              html.EscapeString(email),
		Username:           html.EscapeString(username),
		Password:           string(hashed),
		IsActive:           false,
		VerificationCode:   fmt.Sprintf("%06d", rand.Intn(1000000)),
		VerificationExpiry: now.Add(15 * time.Minute),
		CreatedAt:          now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	logging.Logger.Infof("verification code issued for %s", user.Email)
	return nil
}

// VerifyUser activates the account when the code matches and has not
// expired.
func (s *UserService) VerifyUser(ctx context.Context, email, code string) error {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return ErrUserNotFound
	}
	if user.IsActive {
		return nil
	}
	if user.VerificationCode != code {
		return fmt.Errorf("invalid verification code")
	}
	if s.Now().After(user.VerificationExpiry) {
		return fmt.Errorf("verification code has expired")
	}
	return s.store.ActivateUser(ctx, email)
}

// Login checks the credentials and returns a signed token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", models.User{}, ErrBadCredentials
	}
	if !user.IsActive {
		return "", models.User{}, ErrNotVerified
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", models.User{}, ErrBadCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", models.User{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}
