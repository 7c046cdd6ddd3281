package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"conferencecentral/internal/domain"
)

const (
	loginCodeDigits     = 6
	loginCodeExpiryMins = 15
)

var (
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	loginCodeRegex = regexp.MustCompile(`^\d{6}$`)
)

type authService struct {
	profileRepo   domain.ProfileRepository
	loginCodeRepo domain.LoginCodeRepository
	tokenIssuer   domain.TokenIssuer
	tokenExpiry   time.Duration
	emailService  domain.EmailService
}

// NewAuthService creates an AuthService implementing the passwordless
// login-code flow over profiles.
func NewAuthService(
	profileRepo domain.ProfileRepository,
	loginCodeRepo domain.LoginCodeRepository,
	tokenIssuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	emailService domain.EmailService,
) domain.AuthService {
	return &authService{
		profileRepo:   profileRepo,
		loginCodeRepo: loginCodeRepo,
		tokenIssuer:   tokenIssuer,
		tokenExpiry:   tokenExpiry,
		emailService:  emailService,
	}
}

func (s *authService) RequestLoginCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	code, err := generateLoginCode(loginCodeDigits)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	codeHash := hashLoginCode(code)
	expiresAt := time.Now().Add(loginCodeExpiryMins * time.Minute)
	if err := s.loginCodeRepo.Create(ctx, email, codeHash, expiresAt); err != nil {
		return fmt.Errorf("store login code: %w", err)
	}
	if s.emailService != nil {
		data := &domain.LoginCodeEmailData{
			Email:            email,
			Code:             code,
			ExpiresInMinutes: loginCodeExpiryMins,
		}
		if err := s.emailService.SendLoginCode(ctx, data); err != nil {
			return fmt.Errorf("send login code email: %w", err)
		}
	}
	return nil
}

func (s *authService) VerifyLoginCode(ctx context.Context, email, code string) (string, *domain.Profile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return "", nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	code = strings.TrimSpace(code)
	if !loginCodeRegex.MatchString(code) {
		return "", nil, fmt.Errorf("%w: invalid or expired code", domain.ErrUnauthorized)
	}
	consumed, err := s.loginCodeRepo.Consume(ctx, email, hashLoginCode(code))
	if err != nil {
		return "", nil, fmt.Errorf("verify code: %w", err)
	}
	if !consumed {
		return "", nil, fmt.Errorf("%w: invalid or expired code", domain.ErrUnauthorized)
	}

	profile, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return "", nil, fmt.Errorf("get profile: %w", err)
		}
		// First login: create a profile with defaults.
		profile = domain.NewProfile(uuid.NewString(), "", email, domain.TeeShirtSizeNotSpecified, time.Now())
		if err := s.profileRepo.Put(ctx, profile); err != nil {
			return "", nil, fmt.Errorf("create profile: %w", err)
		}
	}

	token, err := s.tokenIssuer.Issue(profile.UserID, profile.MainEmail, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, profile, nil
}

func generateLoginCode(digits int) (string, error) {
	const digitspace = "0123456789"
	b := make([]byte, digits)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = digitspace[int(b[i])%len(digitspace)]
	}
	return string(b), nil
}

func hashLoginCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
