package handlers

import (
	"log"
	"net/http"

	"github.com/markdave123-py/Uncouple/internal/core/intake"
	"github.com/markdave123-py/Uncouple/internal/models"
	"github.com/markdave123-py/Uncouple/internal/services"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type profileResponse struct {
	Record models.FormRecord `json:"record"`
	Exists bool              `json:"exists"`
}

// GetProfile returns the stored intake record used to prefill the wizard.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	p, err := h.profiles.Get(r.Context(), uid)
	if err != nil {
		log.Printf("profile: get %s: %v", uid, err)
		writeError(w, http.StatusInternalServerError, "could not load profile")
		return
	}
	resp := profileResponse{}
	if p != nil {
		resp.Record, resp.Exists = p.Record, true
	}
	writeJSON(w, http.StatusOK, resp)
}

// SaveBasicInfo validates and stores the basic-information section.
func (h *ProfileHandler) SaveBasicInfo(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var rec models.FormRecord
	if !decode(w, r, &rec) {
		return
	}

	wiz := intake.NewWizard(rec)
	if err := wiz.SaveBasicInfo(r.Context(), h.profiles, uid); err != nil {
		if writeValidation(w, err) {
			return
		}
		log.Printf("profile: save basic info %s: %v", uid, err)
		writeError(w, http.StatusInternalServerError, "could not save profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true, "chatUnlocked": wiz.ChatUnlocked()})
}

// Submit validates the whole record and stores it.
func (h *ProfileHandler) Submit(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var rec models.FormRecord
	if !decode(w, r, &rec) {
		return
	}

	wiz := intake.NewWizard(rec)
	if err := wiz.Submit(r.Context(), h.profiles, uid); err != nil {
		if writeValidation(w, err) {
			return
		}
		log.Printf("profile: submit %s: %v", uid, err)
		writeError(w, http.StatusInternalServerError, "could not save profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saved": true, "next": "payment"})
}

type validateRequest struct {
	Record  models.FormRecord `json:"record"`
	Touched []string          `json:"touched"`
}

// Validate returns the inline errors for a record. Without a touched list
// every field is checked.
func (h *ProfileHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !decode(w, r, &req) {
		return
	}
	var errs map[string]string
	if len(req.Touched) == 0 {
		errs = intake.CheckSubmission(req.Record)
	} else {
		errs = intake.CheckTouched(req.Record, req.Touched)
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": len(errs) == 0, "errors": errs})
}
