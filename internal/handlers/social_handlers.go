package handlers

import (
	"net/http"
	"net/url"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/storage"
)

// Chat

func (h *Handlers) GetChat(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	bookingID, err := pathID(r, "bookingId", "booking")
	if err != nil {
		handleError(w, r, err)
		return
	}

	thread, err := h.services.Chat.Thread(r.Context(), c, bookingID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

func (h *Handlers) PostChatMessage(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	bookingID, err := pathID(r, "bookingId", "booking")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req domain.PostMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	msg, err := h.services.Chat.Post(r.Context(), c, bookingID, &req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// Reviews

func (h *Handlers) ReviewEligibility(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	bookingID, err := pathID(r, "bookingId", "booking")
	if err != nil {
		handleError(w, r, err)
		return
	}

	eligibility, err := h.services.Reviews.Eligibility(r.Context(), c.ID, bookingID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, eligibility)
}

func (h *Handlers) CreateReview(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	bookingID, err := pathID(r, "bookingId", "booking")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req domain.CreateReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	review, err := h.services.Reviews.Create(r.Context(), c.ID, bookingID, &req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// Blogs

func (h *Handlers) ListBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.services.Blogs.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blogs)
}

func (h *Handlers) GetBlog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "blog")
	if err != nil {
		handleError(w, r, err)
		return
	}

	blog, err := h.services.Blogs.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

func (h *Handlers) ManageBlogs(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	blogs, err := h.services.Blogs.ListByAuthor(r.Context(), c.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blogs)
}

func (h *Handlers) blogInput(w http.ResponseWriter, r *http.Request) (*domain.BlogRequest, *storage.File, error) {
	var req domain.BlogRequest
	err := h.bind(w, r, &req, func(form url.Values) error {
		req.Title = form.Get("title")
		req.Description = form.Get("description")
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

func (h *Handlers) CreateBlog(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	req, image, err := h.blogInput(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	blog, err := h.services.Blogs.Create(r.Context(), c, req, image)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, blog)
}

func (h *Handlers) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	id, err := pathID(r, "id", "blog")
	if err != nil {
		handleError(w, r, err)
		return
	}
	req, image, err := h.blogInput(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	blog, err := h.services.Blogs.Update(r.Context(), c, id, req, image)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

func (h *Handlers) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	id, err := pathID(r, "id", "blog")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := h.services.Blogs.Delete(r.Context(), c, id); err != nil {
		handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Blog deleted")
}

// Contact

func (h *Handlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req domain.ContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	contact, err := h.services.Contacts.Submit(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}
