package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pmo/backend/internal/domain/identity"
	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/domain/shared/valueobject"
	"github.com/pmo/backend/internal/infrastructure/auth"
)

// AuthService handles registration, login and principal lookup
type AuthService struct {
	userRepo identity.UserRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenService
	logger   *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates an account and signs the new user in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email, err := valueobject.NewEmail(req.Email)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email.String())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User with this email already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to hash password")
	}

	role, err := identity.ParseUserRole(req.Role)
	if err != nil {
		return nil, err
	}

	user, err := identity.NewUser(email, hash, req.Name, role)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique constraint catches a concurrent register with the
		// same address.
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "User with this email already exists")
		}
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", email.String()))

	return s.authResponse(user)
}

// Login verifies credentials. Unknown email and wrong password produce
// the same error so the response does not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email, err := valueobject.NewEmail(req.Email)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")
	}

	user, err := s.userRepo.FindByEmail(ctx, email.String())
	if err != nil {
		s.logger.Warn("login for unknown email", zap.String("email", email.String()))
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error("failed to verify password",
			zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Invalid password hash")
	}
	if !ok {
		s.logger.Warn("invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))

	return s.authResponse(user)
}

// Me returns the account behind a principal id
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "User not found")
		}
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

func (s *AuthService) authResponse(user *identity.User) (*AuthResponse, error) {
	token, expiresAt, err := s.tokens.GenerateToken(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email.String(),
		Role:   user.Role.String(),
	})
	if err != nil {
		s.logger.Error("failed to generate token",
			zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	return &AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      ToUserResponse(user),
	}, nil
}
