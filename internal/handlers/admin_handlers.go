package handlers

import (
	"net/http"

	"github.com/diagnosis/travelmate/internal/domain"
)

func (h *Handlers) AdminGuides(w http.ResponseWriter, r *http.Request) {
	overview, err := h.services.Admin.Guides(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *Handlers) ApproveGuide(w http.ResponseWriter, r *http.Request) {
	h.setGuideStatus(w, r, domain.GuideVerified)
}

func (h *Handlers) RejectGuide(w http.ResponseWriter, r *http.Request) {
	h.setGuideStatus(w, r, domain.GuideRejected)
}

func (h *Handlers) setGuideStatus(w http.ResponseWriter, r *http.Request, status domain.GuideStatus) {
	id, err := pathID(r, "id", "guide")
	if err != nil {
		handleError(w, r, err)
		return
	}

	guide, err := h.services.Admin.SetGuideStatus(r.Context(), id, status)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guide)
}

func (h *Handlers) AdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.services.Admin.Users(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handlers) AdminTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.services.Admin.Trips(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

func (h *Handlers) AdminContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.services.Contacts.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (h *Handlers) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.services.Admin.Stats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
