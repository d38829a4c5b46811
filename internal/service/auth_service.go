package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mpavic/ripple/internal/domain"
	"github.com/mpavic/ripple/internal/repository"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidCreds = errors.New("invalid email or password")
)

type AuthService struct {
	userRepo repository.UserRepository
	issuer   *TokenIssuer
	timeout  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, issuer *TokenIssuer, timeout time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		issuer:   issuer,
		timeout:  timeout,
	}
}

type RegisterInput struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Location   string `json:"location"`
	Occupation string `json:"occupation"`
	// PicturePath is the opaque reference returned by the blob store; the
	// handler fills it in after saving an uploaded image.
	PicturePath *string `json:"-"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Location:     input.Location,
		Occupation:   input.Occupation,
		PicturePath:  input.PicturePath,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Uniqueness is enforced by the store; the unique constraint is the
	// arbiter under concurrent registrations, not a pre-read.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, storeErr(fmt.Errorf("creating user: %w", err))
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &AuthResponse{User: user, AccessToken: token}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, storeErr(err)
	}
	if user == nil {
		return nil, ErrInvalidCreds
	}

	ok, err := verifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCreds
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &AuthResponse{User: user, AccessToken: token}, nil
}
