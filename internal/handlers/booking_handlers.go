package handlers

import (
	"net/http"

	"github.com/diagnosis/travelmate/internal/domain"
)

func (h *Handlers) BookingForm(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	guideID, err := pathID(r, "guideId", "guide")
	if err != nil {
		handleError(w, r, err)
		return
	}
	tripID, err := domain.ParseID(r.URL.Query().Get("trip"), "trip")
	if err != nil {
		handleError(w, r, err)
		return
	}

	form, err := h.services.Bookings.Form(r.Context(), c.ID, guideID, tripID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	guideID, err := pathID(r, "guideId", "guide")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req domain.CreateBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	booking, err := h.services.Bookings.Create(r.Context(), c.ID, guideID, &req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}
