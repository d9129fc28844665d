package handlers

import (
	"net/http"
	"net/url"

	"github.com/diagnosis/travelmate/internal/domain"
)

func (h *Handlers) guideInput(w http.ResponseWriter, r *http.Request) (*domain.GuideProfileRequest, error) {
	var req domain.GuideProfileRequest
	err := h.bind(w, r, &req, func(form url.Values) error {
		price, err := parseFloat(form, "pricePerHour")
		if err != nil {
			return err
		}
		req.Bio = form.Get("bio")
		req.Experience = form.Get("experience")
		req.PricePerHour = price
		req.Location = form.Get("location")
		req.Languages = domain.SplitList(form.Get("languages"))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *Handlers) CompleteGuideProfile(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	req, err := h.guideInput(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	image, err := formFile(r, "profileImage")
	if err != nil {
		handleError(w, r, err)
		return
	}
	idProof, err := formFile(r, "idProof")
	if err != nil {
		handleError(w, r, err)
		return
	}

	guide, err := h.services.Guides.CompleteProfile(r.Context(), c.ID, req, image, idProof)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, guide)
}

func (h *Handlers) GetGuideProfile(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	guide, err := h.services.Guides.Profile(r.Context(), c.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guide)
}

func (h *Handlers) UpdateGuideProfile(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	req, err := h.guideInput(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	image, err := formFile(r, "profileImage")
	if err != nil {
		handleError(w, r, err)
		return
	}

	guide, err := h.services.Guides.UpdateProfile(r.Context(), c.ID, req, image)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guide)
}

func (h *Handlers) GuideDashboard(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	dash, err := h.services.Guides.Dashboard(r.Context(), c.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (h *Handlers) ListGuideRequests(w http.ResponseWriter, r *http.Request) {
	h.listGuideRequests(w, r, nil)
}

func (h *Handlers) ListGuideBookings(w http.ResponseWriter, r *http.Request) {
	accepted := domain.BookingAccepted
	h.listGuideRequests(w, r, &accepted)
}

func (h *Handlers) listGuideRequests(w http.ResponseWriter, r *http.Request, status *domain.BookingStatus) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	list, err := h.services.Guides.Requests(r.Context(), c.ID, status)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, domain.BookingAccepted)
}

func (h *Handlers) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, domain.BookingRejected)
}

func (h *Handlers) decide(w http.ResponseWriter, r *http.Request, to domain.BookingStatus) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	bookingID, err := pathID(r, "id", "booking")
	if err != nil {
		handleError(w, r, err)
		return
	}

	booking, err := h.services.Guides.Decide(r.Context(), c.ID, bookingID, to)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handlers) SearchGuides(w http.ResponseWriter, r *http.Request) {
	result, err := h.services.Guides.Search(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) GetGuide(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "guide")
	if err != nil {
		handleError(w, r, err)
		return
	}

	details, err := h.services.Guides.Details(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handlers) GetGuideReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "guide")
	if err != nil {
		handleError(w, r, err)
		return
	}

	reviews, err := h.services.Guides.Reviews(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
