package handlers

import (
	"net/http"
	"net/url"

	"github.com/diagnosis/travelmate/internal/domain"
)

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	info, err := h.services.Profiles.Get(r.Context(), c.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req domain.UpdateProfileRequest
	err = h.bind(w, r, &req, func(form url.Values) error {
		req.AboutMe = form.Get("aboutMe")
		req.Location = form.Get("location")
		req.Phone = form.Get("phone")
		return nil
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	image, err := formFile(r, "profileImage")
	if err != nil {
		handleError(w, r, err)
		return
	}

	info, err := h.services.Profiles.Update(r.Context(), c.ID, &req, image)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handlers) RemoveProfileImage(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	info, err := h.services.Profiles.RemoveImage(r.Context(), c.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handlers) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "user")
	if err != nil {
		handleError(w, r, err)
		return
	}

	info, err := h.services.Profiles.Public(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
