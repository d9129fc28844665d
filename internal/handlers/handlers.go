package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/service"
	"github.com/diagnosis/travelmate/pkg/config"
	mw "github.com/diagnosis/travelmate/pkg/middleware"
)

const idempotencyTTL = 24 * time.Hour

type Handlers struct {
	services *service.Services
	config   *config.Config
}

func New(services *service.Services, cfg *config.Config) *Handlers {
	return &Handlers{services: services, config: cfg}
}

// Limits carries the Redis backed stores for rate limiting and idempotent
// replays. Nil stores switch the matching middleware off.
type Limits struct {
	RateLimiter mw.RateLimiter
	Idempotency mw.IdempotencyStore
}

// Routes registers the whole API on r.
func (h *Handlers) Routes(r chi.Router, limits Limits) {
	authLimit := h.rateLimit(limits, "auth", h.config.RateLimit.AuthRequests)
	contactLimit := h.rateLimit(limits, "contact", h.config.RateLimit.ContactRequests)

	travelerOrAdmin := h.RequireRole(domain.RoleTraveler, domain.RoleAdmin)
	signedIn := h.RequireRole()

	r.Use(h.Authenticate)

	r.Route("/user", func(r chi.Router) {
		r.With(authLimit).Post("/signup", h.Signup)
		r.With(authLimit).Post("/verify-otp", h.VerifyOTP)
		r.With(authLimit).Post("/resend-otp", h.ResendOTP)
		r.With(authLimit).Post("/login", h.Login)
		r.Get("/logout", h.Logout)
		r.Post("/logout", h.Logout)

		r.With(travelerOrAdmin).Get("/profile", h.GetProfile)
		r.With(travelerOrAdmin).Post("/profile", h.UpdateProfile)
		r.With(travelerOrAdmin).Post("/remove-profile-image", h.RemoveProfileImage)
		r.With(signedIn).Get("/{id}", h.GetPublicProfile)
	})

	r.Route("/destinations", func(r chi.Router) {
		r.Get("/", h.ListDestinations)
		r.Get("/{id}", h.GetDestination)
	})

	r.Route("/guide", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.RequireRole(domain.RoleGuide))
			r.Post("/complete-profile", h.CompleteGuideProfile)
			r.Get("/profile", h.GetGuideProfile)
			r.Post("/profile", h.UpdateGuideProfile)
			r.Get("/home", h.GuideDashboard)
			r.Get("/requests", h.ListGuideRequests)
			r.Get("/bookings", h.ListGuideBookings)
			r.Post("/requests/{id}/accept", h.AcceptRequest)
			r.Post("/requests/{id}/decline", h.DeclineRequest)
		})

		r.Group(func(r chi.Router) {
			r.Use(signedIn)
			r.Get("/", h.SearchGuides)
			r.Get("/{id}", h.GetGuide)
			r.Get("/{id}/reviews", h.GetGuideReviews)
		})
	})

	r.Route("/trip-planner", func(r chi.Router) {
		r.Use(travelerOrAdmin)
		r.Get("/", h.ListTrips)
		r.Post("/add/{destinationId}", h.AddTrip)
		r.Get("/{tripId}", h.GetTrip)
		r.Delete("/{tripId}", h.DeleteTrip)
		r.Post("/{tripId}/itinerary", h.AddItineraryDay)
		r.Delete("/{tripId}/itinerary/{day}", h.RemoveItineraryDay)
		r.Post("/{tripId}/budget", h.AddBudgetItem)
		r.Delete("/{tripId}/budget/{category}", h.RemoveBudgetCategory)
		r.Post("/{tripId}/packing", h.AddPackingItem)
		r.Post("/{tripId}/packing/{index}/toggle", h.TogglePackingItem)
		r.Delete("/{tripId}/packing/{index}", h.RemovePackingItem)
		r.Put("/{tripId}/notes", h.UpdateNotes)
		r.Get("/{tripId}/guides", h.ListTripGuides)
		r.Get("/{tripId}/booking/{bookingId}", h.GetTripBooking)
	})

	r.Route("/book-guide/{guideId}", func(r chi.Router) {
		r.Use(travelerOrAdmin)
		r.Get("/", h.BookingForm)
		if limits.Idempotency != nil {
			r.With(mw.Idempotency(limits.Idempotency, idempotencyTTL, callerScope)).Post("/", h.CreateBooking)
		} else {
			r.Post("/", h.CreateBooking)
		}
	})

	r.Route("/chat/{bookingId}", func(r chi.Router) {
		r.Use(signedIn)
		r.Get("/", h.GetChat)
		r.Post("/", h.PostChatMessage)
	})

	r.Route("/reviews/{bookingId}", func(r chi.Router) {
		r.Use(signedIn)
		r.Get("/new", h.ReviewEligibility)
		r.Post("/", h.CreateReview)
	})

	r.Route("/blogs", func(r chi.Router) {
		r.Get("/", h.ListBlogs)
		r.With(signedIn).Get("/manage", h.ManageBlogs)
		r.With(signedIn).Post("/", h.CreateBlog)
		r.Get("/{id}", h.GetBlog)
		r.With(signedIn).Put("/{id}", h.UpdateBlog)
		r.With(signedIn).Delete("/{id}", h.DeleteBlog)
	})

	r.With(contactLimit).Post("/contact", h.SubmitContact)

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.RequireRole(domain.RoleAdmin))
		r.Get("/guides", h.AdminGuides)
		r.Post("/guides/{id}/approve", h.ApproveGuide)
		r.Post("/guides/{id}/reject", h.RejectGuide)
		r.Get("/users", h.AdminUsers)
		r.Get("/trips", h.AdminTrips)
		r.Get("/destinations", h.ListDestinations)
		r.Post("/destinations", h.CreateDestination)
		r.Get("/destinations/{id}", h.GetDestination)
		r.Put("/destinations/{id}", h.UpdateDestination)
		r.Delete("/destinations/{id}", h.DeleteDestination)
		r.Get("/contacts", h.AdminContacts)
		r.Get("/blogs", h.ListBlogs)
		r.Delete("/blogs/{id}", h.DeleteBlog)
		r.Get("/stats", h.AdminStats)
	})
}

func (h *Handlers) rateLimit(limits Limits, prefix string, limit int) func(http.Handler) http.Handler {
	if limits.RateLimiter == nil || limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw.RateLimit(limits.RateLimiter, prefix, limit, h.config.RateLimit.Window)
}

func callerScope(r *http.Request) string {
	if claims := getClaims(r); claims != nil {
		return claims.Sub
	}
	return ""
}
