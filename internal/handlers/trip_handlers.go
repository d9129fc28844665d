package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/service"
)

type addTripResponse struct {
	Message string           `json:"message"`
	Trip    *domain.TripView `json:"trip"`
}

// tripCaller resolves the caller and the {tripId} path parameter.
func tripCaller(r *http.Request) (service.Caller, primitive.ObjectID, error) {
	c, err := caller(r)
	if err != nil {
		return c, primitive.NilObjectID, err
	}
	tripID, err := pathID(r, "tripId", "trip")
	return c, tripID, err
}

func (h *Handlers) ListTrips(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	trips, err := h.services.Trips.List(r.Context(), c.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

func (h *Handlers) AddTrip(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	destinationID, err := pathID(r, "destinationId", "destination")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req domain.CreateTripRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	trip, created, err := h.services.Trips.Add(r.Context(), c.ID, destinationID, &req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if !created {
		writeJSON(w, http.StatusOK, addTripResponse{Message: "Already added", Trip: trip})
		return
	}
	writeJSON(w, http.StatusCreated, addTripResponse{Message: "Trip added", Trip: trip})
}

func (h *Handlers) GetTrip(w http.ResponseWriter, r *http.Request) {
	c, tripID, err := tripCaller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	details, err := h.services.Trips.Details(r.Context(), c.ID, tripID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handlers) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	c, tripID, err := tripCaller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := h.services.Trips.Delete(r.Context(), c.ID, tripID); err != nil {
		handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Trip deleted")
}

func (h *Handlers) AddItineraryDay(w http.ResponseWriter, r *http.Request) {
	c, tripID, err := tripCaller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req domain.ItineraryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	trip, err := h.services.Trips.AddItineraryDay(r.Context(), c.ID, tripID, &req)
	writeTrip(w, r, trip, err)
}

func (h *Handlers) RemoveItineraryDay(w http.ResponseWriter, r *http.Request) {
	c, tripID, err := tripCaller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	day, err := pathInt(r, "day")
	if err != nil {
		handleError(w, r, err)
		return
	}

	trip, err := h.services.Trips.RemoveItineraryDay(r.Context(), c.ID, tripID, day)
	writeTrip(w, r, trip, err)
}

func (h *Handlers) AddBudgetItem(w http.ResponseWriter, r *http.Request) {
	c, tripID, err := tripCaller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req domain.BudgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	trip, err := h.services.Trips.AddBudgetItem(r.Context(), c.ID, tripID, &req)
	writeTrip(w, r, trip, err)
}

func (h *Handlers) RemoveBudgetCategory(w http.ResponseWriter, r *http.Request) {
	c, tripID, err := tripCaller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	trip, err := h.services.Trips.RemoveBudgetCategory(r.Context(), c.ID, tripID, chi.URLParam(r, "category"))
	writeTrip(w, r, trip, err)
}

func (h *Handlers) AddPackingItem(w http.ResponseWriter, r *http.Request) {
	c, tripID, err := tripCaller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req domain.PackingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	trip, err := h.services.Trips.AddPackingItem(r.Context(), c.ID, tripID, &req)
	writeTrip(w, r, trip, err)
}

func (h *Handlers) TogglePackingItem(w http.ResponseWriter, r *http.Request) {
	c, tripID, err := tripCaller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	index, err := pathInt(r, "index")
	if err != nil {
		handleError(w, r, err)
		return
	}

	trip, err := h.services.Trips.TogglePackingItem(r.Context(), c.ID, tripID, index)
	writeTrip(w, r, trip, err)
}

func (h *Handlers) RemovePackingItem(w http.ResponseWriter, r *http.Request) {
	c, tripID, err := tripCaller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	index, err := pathInt(r, "index")
	if err != nil {
		handleError(w, r, err)
		return
	}

	trip, err := h.services.Trips.RemovePackingItem(r.Context(), c.ID, tripID, index)
	writeTrip(w, r, trip, err)
}

func (h *Handlers) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	c, tripID, err := tripCaller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req domain.NotesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	trip, err := h.services.Trips.UpdateNotes(r.Context(), c.ID, tripID, &req)
	writeTrip(w, r, trip, err)
}

func (h *Handlers) ListTripGuides(w http.ResponseWriter, r *http.Request) {
	c, tripID, err := tripCaller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	guides, err := h.services.Trips.Guides(r.Context(), c.ID, tripID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guides)
}

func (h *Handlers) GetTripBooking(w http.ResponseWriter, r *http.Request) {
	c, tripID, err := tripCaller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	bookingID, err := pathID(r, "bookingId", "booking")
	if err != nil {
		handleError(w, r, err)
		return
	}

	booking, err := h.services.Trips.Booking(r.Context(), c.ID, tripID, bookingID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func writeTrip(w http.ResponseWriter, r *http.Request, trip *domain.TripView, err error) {
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}
