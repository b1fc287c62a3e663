package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/markdave123-py/Uncouple/internal/core/forms"
	"github.com/markdave123-py/Uncouple/internal/models"
	"github.com/markdave123-py/Uncouple/internal/services"
)

type DocumentHandler struct {
	docs *services.DocumentService
}

func NewDocumentHandler(docs *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{docs: docs}
}

// ListForms returns the form catalog.
func (h *DocumentHandler) ListForms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"forms": h.docs.Catalog()})
}

// DownloadAll streams every filled form of the stored profile as a ZIP.
func (h *DocumentHandler) DownloadAll(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	a, err := h.docs.Bundle(r.Context(), uid, format(r))
	if err != nil {
		h.fail(w, uid, err)
		return
	}
	sendFile(w, a.Name, forms.ContentTypeZip, a.Content)
}

type generateRequest struct {
	FormData models.FormRecord `json:"formData"`
	Format   string            `json:"format"`
}

// Generate fills every form from the record in the request body.
func (h *DocumentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req generateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Format == "" {
		req.Format = services.FormatDocx
	}
	a, err := h.docs.BundleSubmitted(r.Context(), uid, req.FormData, req.Format)
	if err != nil {
		h.fail(w, uid, err)
		return
	}
	sendFile(w, a.Name, forms.ContentTypeZip, a.Content)
}

// DownloadOne sends a single filled form.
func (h *DocumentHandler) DownloadOne(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	doc, err := h.docs.One(r.Context(), uid, forms.FormID(chi.URLParam(r, "formID")), format(r))
	if err != nil {
		h.fail(w, uid, err)
		return
	}
	sendFile(w, doc.FileName, doc.ContentType, doc.Content)
}

// Preview returns the filled text of one form.
func (h *DocumentHandler) Preview(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id := forms.FormID(chi.URLParam(r, "formID"))
	text, err := h.docs.Preview(r.Context(), uid, id)
	if err != nil {
		h.fail(w, uid, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"formId": string(id), "text": text})
}

// PreviewPDF renders the filled text of one form as a PDF.
func (h *DocumentHandler) PreviewPDF(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id := forms.FormID(chi.URLParam(r, "formID"))
	pdf, err := h.docs.PreviewPDF(r.Context(), uid, id)
	if err != nil {
		h.fail(w, uid, err)
		return
	}
	w.Header().Set("Content-Type", forms.ContentTypePDF)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", string(id)+"_preview.pdf"))
	_, _ = w.Write(pdf)
}

func (h *DocumentHandler) fail(w http.ResponseWriter, uid string, err error) {
	var missing *forms.TemplateNotFoundError
	switch {
	case errors.Is(err, services.ErrPaymentRequired):
		writeError(w, http.StatusPaymentRequired, "payment required before downloading forms")
	case errors.Is(err, services.ErrNoProfile):
		writeError(w, http.StatusNotFound, "complete the intake form first")
	case errors.Is(err, services.ErrUnknownFormat):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, forms.ErrUnknownForm) && errors.As(err, &missing):
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown form %s", missing.FormID))
	case errors.Is(err, forms.ErrUnknownForm):
		writeError(w, http.StatusNotFound, "unknown form")
	case errors.As(err, &missing):
		log.Printf("documents: %v", err)
		writeError(w, http.StatusNotFound, fmt.Sprintf("no template available for form %s", missing.FormID))
	default:
		log.Printf("documents: %s: %v", uid, err)
		writeError(w, http.StatusInternalServerError, "failed to generate documents")
	}
}

func format(r *http.Request) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return f
	}
	return services.FormatDocx
}

func sendFile(w http.ResponseWriter, name, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if _, err := w.Write(body); err != nil {
		log.Printf("WARN: write %s: %v", name, err)
	}
}
