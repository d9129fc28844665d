package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/mailer"
	"github.com/diagnosis/travelmate/internal/repository"
	"github.com/diagnosis/travelmate/pkg/auth"
	"github.com/diagnosis/travelmate/pkg/config"
	"github.com/diagnosis/travelmate/pkg/events"
	"github.com/diagnosis/travelmate/pkg/logger"
)

// OTPIssued is the answer to signup and resend requests.
type OTPIssued struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	DevOTP  string `json:"dev_otp,omitempty"`
}

type AuthService interface {
	Signup(ctx context.Context, req *domain.SignupRequest) (*OTPIssued, error)
	VerifyOTP(ctx context.Context, req *domain.VerifyOTPRequest) (*domain.AuthResponse, error)
	ResendOTP(ctx context.Context, req *domain.EmailRequest) (*OTPIssued, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
}

type authService struct {
	users     repository.UserRepository
	mailer    mailer.Service
	publisher events.Publisher
	config    *config.Config
}

func NewAuthService(
	users repository.UserRepository,
	mailer mailer.Service,
	publisher events.Publisher,
	config *config.Config,
) AuthService {
	return &authService{
		users:     users,
		mailer:    mailer,
		publisher: publisher,
		config:    config,
	}
}

func (s *authService) Signup(ctx context.Context, req *domain.SignupRequest) (*OTPIssued, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil && existing.IsVerified {
		return nil, domain.Conflict("User already exists")
	}

	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := existing
	if user == nil {
		user = &domain.User{Email: req.Email}
	}
	user.Name = req.Name
	user.PasswordHash = passwordHash
	user.Role = req.Role

	code, err := s.issueOTP(user)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		err = s.users.Create(ctx, user)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.Conflict("User already exists")
		}
	} else {
		err = s.users.Save(ctx, user)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	if existing == nil {
		publish(ctx, s.publisher, events.UserRegistered, events.UserRegisteredEvent{
			UserID:    user.ID.Hex(),
			Email:     user.Email,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
		}, user.ID)
	}

	return s.sendOTP(ctx, user, code, "OTP sent to email")
}

func (s *authService) VerifyOTP(ctx context.Context, req *domain.VerifyOTPRequest) (*domain.AuthResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.NotFound("User not found")
	}
	if user.IsVerified {
		return nil, domain.Conflict("User already verified")
	}
	if user.OTPAttempts > s.config.Auth.OTPMaxAttempts {
		return nil, domain.TooManyRequests("Too many incorrect attempts. Request a new OTP")
	}
	if user.OTPHash == "" || user.OTPExpires == nil || now().After(*user.OTPExpires) {
		return nil, domain.Invalid("OTP expired")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.OTPHash), []byte(req.OTP)) != nil {
		user.OTPAttempts++
		if err := s.users.Save(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to record otp attempt: %w", err)
		}
		return nil, domain.Invalid("Incorrect OTP")
	}

	user.IsVerified = true
	user.ClearOTP()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to mark user as verified: %w", err)
	}

	publish(ctx, s.publisher, events.UserVerified, events.UserRegisteredEvent{
		UserID:    user.ID.Hex(),
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}, user.ID)

	return s.session(user)
}

func (s *authService) ResendOTP(ctx context.Context, req *domain.EmailRequest) (*OTPIssued, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		// Don't reveal whether the email is registered
		return &OTPIssued{Message: "If the account exists, a new OTP has been sent", Email: req.Email}, nil
	}
	if user.IsVerified {
		return nil, domain.Conflict("User already verified")
	}

	code, err := s.issueOTP(user)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save otp: %w", err)
	}

	return s.sendOTP(ctx, user, code, "New OTP sent to email")
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.Unauthorized("Invalid credentials")
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, domain.Unauthorized("Invalid credentials")
	}

	if !user.IsVerified {
		return nil, domain.Forbidden("User not verified")
	}

	return s.session(user)
}

// issueOTP stores a fresh hashed passcode on user and returns the plaintext.
func (s *authService) issueOTP(user *domain.User) (string, error) {
	code, err := generateOTP()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash otp: %w", err)
	}

	expires := now().Add(s.config.Auth.OTPTTL)
	user.OTPHash = string(hash)
	user.OTPExpires = &expires
	user.OTPAttempts = 0
	return code, nil
}

func (s *authService) sendOTP(ctx context.Context, user *domain.User, code, message string) (*OTPIssued, error) {
	msg := mailer.OTPEmail(user.Email, user.Name, code, s.config.Auth.OTPTTL)
	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.ErrorContext(ctx, "Failed to send otp email", "error", err, "user_id", user.ID.Hex())
		// The user can ask for a new code; the account is already saved.
	}

	out := &OTPIssued{Message: message, Email: user.Email}
	if s.config.Email.DevMode {
		out.DevOTP = code
	}
	return out, nil
}

func (s *authService) session(user *domain.User) (*domain.AuthResponse, error) {
	token, err := auth.NewAccessToken(
		user.ID.Hex(),
		user.Email,
		user.Role,
		scopeFor(user.Role),
		s.config.Auth.JWTSecret,
		s.config.Auth.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &domain.AuthResponse{
		Token:     token,
		ExpiresIn: int64(s.config.Auth.AccessTokenTTL.Seconds()),
		User:      user.ToUserInfo(),
	}, nil
}

func scopeFor(role string) string {
	switch role {
	case domain.RoleAdmin:
		return "admin:read admin:write destinations:write guides:review"
	case domain.RoleGuide:
		return "guide:read guide:write bookings:decide"
	case domain.RoleTraveler:
		return "trips:read:self trips:write:self bookings:write:self"
	default:
		return ""
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
