package handlers

import (
	"log"
	"net/http"

	"github.com/markdave123-py/Uncouple/internal/services"
)

type EligibilityHandler struct {
	svc *services.EligibilityService
}

func NewEligibilityHandler(svc *services.EligibilityService) *EligibilityHandler {
	return &EligibilityHandler{svc: svc}
}

func (h *EligibilityHandler) Questions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"questions": h.svc.Questions()})
}

type assessRequest struct {
	Answers map[string]string `json:"answers"`
}

func (h *EligibilityHandler) Assess(w http.ResponseWriter, r *http.Request) {
	var req assessRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Assess(req.Answers)
	if err != nil {
		if writeValidation(w, err) {
			return
		}
		log.Printf("eligibility: %v", err)
		writeError(w, http.StatusInternalServerError, "could not assess eligibility")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
