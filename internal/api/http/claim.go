package http

import (
	"net/http"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/service"
)

type ClaimHandler struct {
	claims service.ClaimService
}

func NewClaimHandler(claims service.ClaimService) *ClaimHandler {
	return &ClaimHandler{claims: claims}
}

type fileClaimRequest struct {
	BookingID      int32    `json:"booking_id"`
	IncidentType   string   `json:"incident_type"`
	IncidentDate   string   `json:"incident_date"`
	Description    string   `json:"description"`
	PhotoURLs      []string `json:"photo_urls"`
	EstimatedCents int64    `json:"estimated_cents"`
}

func (h *ClaimHandler) HandleFile(w http.ResponseWriter, r *http.Request) {
	var req fileClaimRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	claim := &domain.Claim{
		BookingID:      req.BookingID,
		FiledBy:        callerID(r),
		IncidentType:   domain.IncidentType(req.IncidentType),
		IncidentDate:   req.IncidentDate,
		Description:    req.Description,
		PhotoURLs:      req.PhotoURLs,
		EstimatedCents: req.EstimatedCents,
	}
	if err := h.claims.FileClaim(r.Context(), claim); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, claim)
}

func (h *ClaimHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	claimID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	claim, err := h.claims.GetClaim(r.Context(), claimID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claim)
}

func (h *ClaimHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	status := r.URL.Query().Get("status")

	claims, total, err := h.claims.ListClaims(r.Context(), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: claims, Total: total, Page: page, PageSize: pageSize})
}

func (h *ClaimHandler) HandleListForBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	claims, err := h.claims.ListBookingClaims(r.Context(), bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claims)
}

type claimStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (h *ClaimHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	claimID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req claimStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	claim, err := h.claims.UpdateClaimStatus(r.Context(), callerID(r), claimID, domain.ClaimStatus(req.Status), req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claim)
}
