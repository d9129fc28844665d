package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/storage"
)

const maxJSONBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.Invalid("Request body too large")
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return domain.Invalid("%s has the wrong type", typeErr.Field)
		}
		if errors.Is(err, io.EOF) {
			return domain.Invalid("Request body is required")
		}
		return domain.Invalid("Invalid JSON body: %v", err)
	}
	return nil
}

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "multipart/form-data") || strings.HasPrefix(ct, "application/x-www-form-urlencoded")
}

// bind reads v from a JSON body, or hands form fields to fill for
// multipart and urlencoded requests.
func (h *Handlers) bind(w http.ResponseWriter, r *http.Request, v any, fill func(form url.Values) error) error {
	if !isForm(r) {
		return decodeJSON(w, r, v)
	}

	limit := h.config.Server.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(limit); err != nil {
			return domain.Invalid("Invalid form data or file too large")
		}
	} else if err := r.ParseForm(); err != nil {
		return domain.Invalid("Invalid form data")
	}
	return fill(r.PostForm)
}

// formFile returns the uploaded file for field, or nil when none was sent.
func formFile(r *http.Request, field string) (*storage.File, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil
	}
	fh := r.MultipartForm.File[field][0]
	f, err := fh.Open()
	if err != nil {
		return nil, domain.Invalid("Could not read uploaded %s", field)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.Invalid("Could not read uploaded %s", field)
	}
	return &storage.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	}, nil
}

func pathID(r *http.Request, param, what string) (primitive.ObjectID, error) {
	return domain.ParseID(chi.URLParam(r, param), what)
}

func pathInt(r *http.Request, param string) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil {
		return 0, domain.Invalid("%s must be a number", param)
	}
	return n, nil
}

func parseFloat(form url.Values, field string) (float64, error) {
	v := strings.TrimSpace(form.Get(field))
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, domain.Invalid("%s must be a number", field)
	}
	return f, nil
}
