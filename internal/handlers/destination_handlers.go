package handlers

import (
	"net/http"
	"net/url"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/storage"
)

func (h *Handlers) ListDestinations(w http.ResponseWriter, r *http.Request) {
	list, err := h.services.Destinations.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) GetDestination(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "destination")
	if err != nil {
		handleError(w, r, err)
		return
	}

	d, err := h.services.Destinations.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handlers) CreateDestination(w http.ResponseWriter, r *http.Request) {
	req, image, err := h.destinationInput(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	d, err := h.services.Destinations.Create(r.Context(), req, image)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *Handlers) UpdateDestination(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "destination")
	if err != nil {
		handleError(w, r, err)
		return
	}
	req, image, err := h.destinationInput(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	d, err := h.services.Destinations.Update(r.Context(), id, req, image)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handlers) DeleteDestination(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "destination")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := h.services.Destinations.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Destination deleted")
}

func (h *Handlers) destinationInput(w http.ResponseWriter, r *http.Request) (*domain.DestinationRequest, *storage.File, error) {
	var req domain.DestinationRequest
	err := h.bind(w, r, &req, func(form url.Values) error {
		req.Name = form.Get("name")
		req.Description = form.Get("description")
		req.BestTimeToVisit = form.Get("bestTimeToVisit")
		req.MustVisit = domain.SplitList(form.Get("mustVisit"))
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	image, err := formFile(r, "image")
	if err != nil {
		return nil, nil, err
	}
	return &req, image, nil
}
