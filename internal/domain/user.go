package domain

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleTraveler = "traveler"
	RoleGuide    = "guide"
	RoleAdmin    = "admin"
)

var validRoles = map[string]bool{
	RoleTraveler: true,
	RoleGuide:    true,
	RoleAdmin:    true,
}

func IsValidRole(role string) bool {
	return validRoles[role]
}

type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	PasswordHash    string             `bson:"password_hash" json:"-"`
	Role            string             `bson:"role" json:"role"`
	Phone           string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Location        string             `bson:"location,omitempty" json:"location,omitempty"`
	ProfileImage    string             `bson:"profile_image,omitempty" json:"profileImage,omitempty"`
	ProfileImageKey string             `bson:"profile_image_key,omitempty" json:"-"`
	AboutMe         string             `bson:"about_me,omitempty" json:"aboutMe,omitempty"`
	IsVerified      bool               `bson:"is_verified" json:"isVerified"`
	OTPHash         string             `bson:"otp_hash,omitempty" json:"-"`
	OTPExpires      *time.Time         `bson:"otp_expires,omitempty" json:"-"`
	OTPAttempts     int                `bson:"otp_attempts,omitempty" json:"-"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// UserInfo is the user as returned to its owner and admins.
type UserInfo struct {
	ID           primitive.ObjectID  `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Role         string              `json:"role"`
	Phone        string              `json:"phone,omitempty"`
	Location     string              `json:"location,omitempty"`
	ProfileImage string              `json:"profileImage,omitempty"`
	AboutMe      string              `json:"aboutMe,omitempty"`
	IsVerified   bool                `json:"isVerified"`
	GuideID      *primitive.ObjectID `json:"guideId,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// UserSummary is what other users get to see when a user is referenced.
type UserSummary struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	Email        string             `json:"email,omitempty"`
	Role         string             `json:"role"`
	ProfileImage string             `json:"profileImage,omitempty"`
}

func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Phone:        u.Phone,
		Location:     u.Location,
		ProfileImage: u.ProfileImage,
		AboutMe:      u.AboutMe,
		IsVerified:   u.IsVerified,
		CreatedAt:    u.CreatedAt,
	}
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		ProfileImage: u.ProfileImage,
	}
}

// ClearOTP drops any pending passcode state.
func (u *User) ClearOTP() {
	u.OTPHash = ""
	u.OTPExpires = nil
	u.OTPAttempts = 0
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role" validate:"oneof=traveler guide"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"`
	User      *UserInfo `json:"user"`
}

type UpdateProfileRequest struct {
	AboutMe  string `json:"aboutMe" validate:"max=1000"`
	Location string `json:"location" validate:"max=120"`
	Phone    string `json:"phone" validate:"max=20"`
}

func (r *SignupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	if r.Role == "" {
		r.Role = RoleTraveler
	}
}

func (r *SignupRequest) Validate() error {
	return validateStruct(r)
}

func (r *VerifyOTPRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
	r.OTP = strings.TrimSpace(r.OTP)
}

func (r *VerifyOTPRequest) Validate() error {
	return validateStruct(r)
}

func (r *EmailRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

func (r *EmailRequest) Validate() error {
	return validateStruct(r)
}

func (r *LoginRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return Invalid("Email and password are required")
	}
	return validateStruct(r)
}

func (r *UpdateProfileRequest) Normalize() {
	r.AboutMe = strings.TrimSpace(r.AboutMe)
	r.Location = strings.TrimSpace(r.Location)
	r.Phone = strings.TrimSpace(r.Phone)
}

func (r *UpdateProfileRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.Phone != "" && !isValidPhone(r.Phone) {
		return Invalid("invalid phone format")
	}
	return nil
}

var phoneRegex = regexp.MustCompile(`^[\+]?[\d\s\-\(\)]+$`)

func isValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone) && len(phone) >= 7
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
