package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"porter/internal/config"
	"porter/internal/models"
	"porter/internal/repositories/interfaces"
	"porter/internal/utils"
	"porter/internal/validators"
	"porter/pkg/logger"
	"porter/pkg/oauth"
)

type AuthService interface {
	Register(ctx context.Context, request *validators.RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *validators.LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, claims *utils.JWTClaims, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	GoogleLogin(ctx context.Context, idToken string) (*AuthResponse, error)

	SendVerificationEmail(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, userRef, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, userRef, token, newPassword string) error

	CurrentUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

type AuthResponse struct {
	User   *models.User     `json:"user"`
	Tokens *utils.TokenPair `json:"tokens"`
	// Created reports that a federated login materialized a new account.
	Created bool `json:"created,omitempty"`
}

type authService struct {
	userRepo   interfaces.UserRepository
	guestRepo  interfaces.GuestProfileRepository
	driverRepo interfaces.DriverProfileRepository
	tx         interfaces.Transactor
	cache      CacheService
	email      EmailService
	google     oauth.Verifier
	security   *config.SecurityConfig
	baseURL    string
	logger     *logger.Logger
}

func NewAuthService(
	userRepo interfaces.UserRepository,
	guestRepo interfaces.GuestProfileRepository,
	driverRepo interfaces.DriverProfileRepository,
	tx interfaces.Transactor,
	cache CacheService,
	email EmailService,
	google oauth.Verifier,
	security *config.SecurityConfig,
	baseURL string,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		guestRepo:  guestRepo,
		driverRepo: driverRepo,
		tx:         tx,
		cache:      cache,
		email:      email,
		google:     google,
		security:   security,
		baseURL:    baseURL,
		logger:     logger,
	}
}

func (s *authService) Register(ctx context.Context, request *validators.RegisterRequest) (*AuthResponse, error) {
	hashedPassword, err := s.hashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:      utils.NormalizeEmail(request.Email),
		FirstName:  request.FirstName,
		LastName:   request.LastName,
		Password:   hashedPassword,
		Role:       models.UserRole(request.Role),
		AuthType:   models.AuthTypeLocal,
		IsVerified: false,
		IsActive:   true,
	}

	// The account and its empty profile are created together so a failure
	// between the two writes never leaves a profileless account behind.
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return err
		}
		return s.createProfile(ctx, user)
	})
	if err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.logger.WithUserID(user.ID).WithField("role", user.Role).Info("User registered")

	if err := s.sendVerificationMail(ctx, user); err != nil {
		// Registration already succeeded. The user can request another
		// verification mail later.
		s.logger.WithError(err).WithUserID(user.ID).Warn("Failed to send verification email")
	}

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *authService) createProfile(ctx context.Context, user *models.User) error {
	switch user.Role {
	case models.UserRoleGuest:
		return s.guestRepo.Create(ctx, &models.GuestProfile{UserID: user.ID})
	case models.UserRoleDriver:
		return s.driverRepo.Create(ctx, &models.DriverProfile{
			UserID: user.ID,
			Rating: models.DefaultDriverRating,
		})
	default:
		return fmt.Errorf("no profile for role %q", user.Role)
	}
}

func (s *authService) Login(ctx context.Context, request *validators.LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(request.Email))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			// Burn a comparison so a missing account costs the same as a
			// wrong password.
			s.checkPassword(request.Password, dummyPasswordHash)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.checkPassword(request.Password, user.Password) {
		s.logger.WithField("email", utils.MaskEmail(user.Email)).Warn("Login attempt with invalid credentials")
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.logger.WithUserID(user.ID).Info("User logged in")
	return &AuthResponse{User: user, Tokens: tokens}, nil
}

// Logout retires the presented access token and, when the client hands its
// refresh token over too, retires that as well so the session cannot be
// resumed.
func (s *authService) Logout(ctx context.Context, claims *utils.JWTClaims, refreshToken string) error {
	if err := s.blacklistToken(ctx, claims); err != nil {
		return err
	}

	if refreshToken == "" {
		return nil
	}
	refreshClaims, err := utils.ValidateToken(refreshToken, s.security.JWTSecret)
	if err != nil || refreshClaims.TokenType != utils.TokenTypeRefresh {
		// An unusable refresh token needs no revocation.
		return nil
	}
	return s.blacklistToken(ctx, refreshClaims)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateToken(refreshToken, s.security.JWTSecret)
	if err != nil || claims.TokenType != utils.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	blacklisted, err := s.cache.Exists(ctx, utils.CacheBlacklistPrefix+claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if blacklisted {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	// Rotate: the consumed refresh token is retired with the new pair.
	if err := s.blacklistToken(ctx, claims); err != nil {
		s.logger.WithError(err).WithUserID(user.ID).Warn("Failed to retire refresh token")
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *authService) GoogleLogin(ctx context.Context, idToken string) (*AuthResponse, error) {
	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		s.logger.WithError(err).Warn("Google ID token rejected")
		return nil, ErrInvalidToken
	}

	email := utils.NormalizeEmail(identity.Email)
	created := false
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			return nil, err
		}
		user, err = s.createFederatedUser(ctx, identity, email)
		if err != nil {
			if errors.Is(err, interfaces.ErrDuplicate) {
				// Lost a race with a concurrent first login.
				user, err = s.userRepo.GetByEmail(ctx, email)
			}
			if err != nil {
				return nil, err
			}
		} else {
			created = true
		}
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.logger.WithUserID(user.ID).Info("User logged in via Google")
	return &AuthResponse{User: user, Tokens: tokens, Created: created}, nil
}

func (s *authService) createFederatedUser(ctx context.Context, identity *oauth.Identity, email string) (*models.User, error) {
	// Federated accounts never authenticate locally, but they still carry a
	// hash of a random secret so the password column is never empty.
	hashedPassword, err := s.hashPassword(utils.GenerateRandomString(32))
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:      email,
		FirstName:  identity.FirstName,
		LastName:   identity.LastName,
		Password:   hashedPassword,
		Role:       models.UserRoleGuest,
		AuthType:   models.AuthTypeGoogle,
		IsVerified: true,
		IsActive:   true,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return err
		}
		return s.createProfile(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithUserID(user.ID).Info("Federated account created")
	return user, nil
}

func (s *authService) SendVerificationEmail(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			// Report success either way so the endpoint cannot be used to
			// probe which addresses hold accounts.
			return nil
		}
		return err
	}

	if user.IsVerified {
		return nil
	}

	return s.sendVerificationMail(ctx, user)
}

func (s *authService) VerifyEmail(ctx context.Context, userRef, token string) error {
	user, err := s.resolveActionUser(ctx, userRef, token)
	if err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user.ID, map[string]interface{}{"is_verified": true}); err != nil {
		return err
	}

	s.logger.WithUserID(user.ID).Info("Email verified")
	return nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			s.logger.WithField("email", utils.MaskEmail(email)).Info("Password reset requested for unknown address")
			return nil
		}
		return err
	}

	token := utils.MakeActionToken(user, s.security.JWTSecret, time.Now())
	link := utils.PasswordResetLink(s.baseURL, utils.EncodeUserRef(user.ID), token)

	body := fmt.Sprintf(
		"Hello %s,\n\nA password reset was requested for your account. Open the link below to choose a new password:\n\n%s\n\nIf you did not request this, you can ignore this message.",
		user.FirstName, link,
	)

	if err := s.email.Send(ctx, user.Email, "Reset your password", body); err != nil {
		return fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	s.logger.WithUserID(user.ID).Info("Password reset email sent")
	return nil
}

func (s *authService) ConfirmPasswordReset(ctx context.Context, userRef, token, newPassword string) error {
	user, err := s.resolveActionUser(ctx, userRef, token)
	if err != nil {
		return err
	}

	hashedPassword, err := s.hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Replacing the hash also invalidates the consumed reset token and any
	// other reset tokens minted before this one.
	if err := s.userRepo.Update(ctx, user.ID, map[string]interface{}{"password": hashedPassword}); err != nil {
		return err
	}

	s.logger.WithUserID(user.ID).Info("Password reset completed")
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// resolveActionUser decodes a mailed user reference and checks the action
// token against the user's current state.
func (s *authService) resolveActionUser(ctx context.Context, userRef, token string) (*models.User, error) {
	userID, err := utils.DecodeUserRef(userRef)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if !utils.CheckActionToken(user, token, s.security.JWTSecret, s.security.ActionTokenTTL, time.Now()) {
		return nil, ErrInvalidToken
	}
	return user, nil
}

func (s *authService) sendVerificationMail(ctx context.Context, user *models.User) error {
	token := utils.MakeActionToken(user, s.security.JWTSecret, time.Now())
	link := utils.VerificationLink(s.baseURL, utils.EncodeUserRef(user.ID), token)

	body := fmt.Sprintf(
		"Hello %s,\n\nWelcome aboard. Confirm your email address by opening the link below:\n\n%s",
		user.FirstName, link,
	)

	if err := s.email.Send(ctx, user.Email, "Confirm your email", body); err != nil {
		return fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	return nil
}

func (s *authService) issueTokens(user *models.User) (*utils.TokenPair, error) {
	tokens, err := utils.GenerateTokenPair(
		user,
		s.security.JWTSecret,
		s.security.JWTAccessTokenTTL,
		s.security.JWTRefreshTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return tokens, nil
}

func (s *authService) blacklistToken(ctx context.Context, claims *utils.JWTClaims) error {
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	return s.cache.Set(ctx, utils.CacheBlacklistPrefix+claims.ID, true, remaining)
}

func (s *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Bcrypt hash of an unguessable throwaway value, compared against when the
// account does not exist.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
