package service

import (
	"context"
	"testing"
	"time"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/pkg/auth"
)

func signup(t *testing.T, f *fixture, email string) *OTPIssued {
	t.Helper()
	out, err := f.svc.Auth.Signup(context.Background(), &domain.SignupRequest{
		Name: "Ann", Email: email, Password: "secret123", Role: "traveler",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	return out
}

func TestAuth_SignupSendsOTPAndStoresHash(t *testing.T) {
	f := newFixture(t)
	out := signup(t, f, " Ann@Example.com ")

	if out.Email != "ann@example.com" || len(out.DevOTP) != 6 {
		t.Fatalf("unexpected result %+v", out)
	}
	if len(f.mail.sent) != 1 || f.mail.sent[0].Subject != "Your OTP for TravelMate Signup" {
		t.Fatalf("unexpected mail %+v", f.mail.sent)
	}

	u, _ := f.store.Users.FindByEmail(context.Background(), "ann@example.com")
	if u == nil || u.IsVerified || u.OTPHash == "" || u.OTPHash == out.DevOTP {
		t.Fatalf("unexpected stored user %+v", u)
	}
}

func TestAuth_SignupRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Auth.Signup(ctx, &domain.SignupRequest{Name: "A", Email: "a@x.co", Password: "secret123", Role: "admin"})
	wantKind(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Auth.Signup(ctx, &domain.SignupRequest{Name: "A", Email: "a@x.co", Password: "123"})
	wantKind(t, err, domain.ErrInvalidInput)

	verified := f.user(t, "Vera", domain.RoleTraveler)
	_, err = f.svc.Auth.Signup(ctx, &domain.SignupRequest{Name: "V", Email: verified.Email, Password: "secret123"})
	wantKind(t, err, domain.ErrConflict)
}

func TestAuth_SignupOverwritesUnverifiedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := signup(t, f, "ann@example.com")

	second, err := f.svc.Auth.Signup(ctx, &domain.SignupRequest{Name: "Annie", Email: "ann@example.com", Password: "other123", Role: "guide"})
	if err != nil {
		t.Fatalf("second signup: %v", err)
	}

	u, _ := f.store.Users.FindByEmail(ctx, "ann@example.com")
	if u.Name != "Annie" || u.Role != domain.RoleGuide {
		t.Fatalf("user not overwritten: %+v", u)
	}
	if first.DevOTP != second.DevOTP {
		_, err = f.svc.Auth.VerifyOTP(ctx, &domain.VerifyOTPRequest{Email: "ann@example.com", OTP: first.DevOTP})
		wantKind(t, err, domain.ErrInvalidInput)
	}
}

func TestAuth_VerifyOTP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := signup(t, f, "ann@example.com")

	_, err := f.svc.Auth.VerifyOTP(ctx, &domain.VerifyOTPRequest{Email: "nobody@example.com", OTP: "123456"})
	wantKind(t, err, domain.ErrNotFound)

	wrong := "000000"
	if out.DevOTP == wrong {
		wrong = "111111"
	}
	_, err = f.svc.Auth.VerifyOTP(ctx, &domain.VerifyOTPRequest{Email: "ann@example.com", OTP: wrong})
	wantKind(t, err, domain.ErrInvalidInput)

	resp, err := f.svc.Auth.VerifyOTP(ctx, &domain.VerifyOTPRequest{Email: "ann@example.com", OTP: out.DevOTP})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	claims, err := auth.Parse(resp.Token, f.cfg.Auth.JWTSecret)
	if err != nil || claims.Role != domain.RoleTraveler || claims.Sub != resp.User.ID.Hex() {
		t.Fatalf("bad token: %v %+v", err, claims)
	}

	u, _ := f.store.Users.FindByEmail(ctx, "ann@example.com")
	if !u.IsVerified || u.OTPHash != "" || u.OTPExpires != nil {
		t.Fatalf("otp state not cleared: %+v", u)
	}

	_, err = f.svc.Auth.VerifyOTP(ctx, &domain.VerifyOTPRequest{Email: "ann@example.com", OTP: out.DevOTP})
	wantKind(t, err, domain.ErrConflict)
}

func TestAuth_VerifyOTPExpired(t *testing.T) {
	f := newFixture(t)
	out := signup(t, f, "ann@example.com")

	withNow(t, time.Now().Add(11*time.Minute))
	_, err := f.svc.Auth.VerifyOTP(context.Background(), &domain.VerifyOTPRequest{Email: "ann@example.com", OTP: out.DevOTP})
	wantKind(t, err, domain.ErrInvalidInput)
	if err.Error() != "OTP expired" {
		t.Fatalf("unexpected message %q", err)
	}
}

func TestAuth_VerifyOTPAttemptLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fail := func(t *testing.T, email, code string, n int) {
		t.Helper()
		wrong := "000000"
		if code == wrong {
			wrong = "111111"
		}
		for i := 0; i < n; i++ {
			_, err := f.svc.Auth.VerifyOTP(ctx, &domain.VerifyOTPRequest{Email: email, OTP: wrong})
			wantKind(t, err, domain.ErrInvalidInput)
		}
	}

	t.Run("correct code still accepted at the limit", func(t *testing.T) {
		out := signup(t, f, "ann@example.com")
		fail(t, "ann@example.com", out.DevOTP, f.cfg.Auth.OTPMaxAttempts)

		if _, err := f.svc.Auth.VerifyOTP(ctx, &domain.VerifyOTPRequest{Email: "ann@example.com", OTP: out.DevOTP}); err != nil {
			t.Fatalf("verify after %d failures: %v", f.cfg.Auth.OTPMaxAttempts, err)
		}
	})

	t.Run("locked once the limit is exceeded", func(t *testing.T) {
		out := signup(t, f, "bob@example.com")
		fail(t, "bob@example.com", out.DevOTP, f.cfg.Auth.OTPMaxAttempts+1)

		_, err := f.svc.Auth.VerifyOTP(ctx, &domain.VerifyOTPRequest{Email: "bob@example.com", OTP: out.DevOTP})
		wantKind(t, err, domain.ErrTooManyRequests)

		// A resend resets the counter.
		again, err := f.svc.Auth.ResendOTP(ctx, &domain.EmailRequest{Email: "bob@example.com"})
		if err != nil {
			t.Fatalf("resend: %v", err)
		}
		if _, err := f.svc.Auth.VerifyOTP(ctx, &domain.VerifyOTPRequest{Email: "bob@example.com", OTP: again.DevOTP}); err != nil {
			t.Fatalf("verify after resend: %v", err)
		}
	})
}

func TestAuth_ResendOTP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.svc.Auth.ResendOTP(ctx, &domain.EmailRequest{Email: "ghost@example.com"})
	if err != nil || out.DevOTP != "" {
		t.Fatalf("unknown email should answer quietly: %v %+v", err, out)
	}
	if len(f.mail.sent) != 0 {
		t.Fatal("mail sent for unknown email")
	}

	u := f.user(t, "Vera", domain.RoleTraveler)
	_, err = f.svc.Auth.ResendOTP(ctx, &domain.EmailRequest{Email: u.Email})
	wantKind(t, err, domain.ErrConflict)
}

func TestAuth_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "Vera", domain.RoleTraveler)
	signup(t, f, "pending@example.com")

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"missing fields", "", "", domain.ErrInvalidInput},
		{"unknown email", "nobody@example.com", "secret123", domain.ErrUnauthorized},
		{"wrong password", u.Email, "nope", domain.ErrUnauthorized},
		{"unverified", "pending@example.com", "secret123", domain.ErrForbidden},
		{"ok", u.Email, "secret123", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.svc.Auth.Login(ctx, &domain.LoginRequest{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				wantKind(t, err, tt.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("login: %v", err)
			}
			if resp.Token == "" || resp.ExpiresIn != 3600 || resp.User.Email != u.Email {
				t.Fatalf("unexpected response %+v", resp)
			}
		})
	}
}
