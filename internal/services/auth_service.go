package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"tableside/internal/models"
	"tableside/internal/repositories"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords so
// login failures do not leak which half was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// StaffClaims is the JWT payload for staff sessions. Sub carries the staff
// ID; Role gates the kitchen and admin route groups.
type StaffClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *models.Staff, error)
	GetStaff(ctx context.Context, id uuid.UUID) (*models.Staff, error)
	// EnsureStaffAccount seeds an account if the username is free. Used at
	// startup for the configured administrator.
	EnsureStaffAccount(ctx context.Context, username, password, role string) error
}

type authService struct {
	staffRepo repositories.StaffRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(staffRepo repositories.StaffRepository, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		staffRepo: staffRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *models.Staff, error) {
	staff, err := s.staffRepo.GetByUsername(ctx, username)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("look up staff: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := &StaffClaims{
		Role: staff.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staff.ID.String(),
			Issuer:    "tableside",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			ID:        uuid.NewString(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, staff, nil
}

func (s *authService) GetStaff(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	return s.staffRepo.GetByID(ctx, id)
}

func (s *authService) EnsureStaffAccount(ctx context.Context, username, password, role string) error {
	if !models.ValidStaffRole(role) {
		return fmt.Errorf("invalid staff role %q", role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	staff := &models.Staff{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return fmt.Errorf("seed staff account: %w", err)
	}
	return nil
}
