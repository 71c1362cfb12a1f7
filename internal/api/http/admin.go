package http

import (
	"net/http"

	"drivoro-backend/internal/service"
)

type AdminHandler struct {
	admin service.AdminService
}

func NewAdminHandler(admin service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type hostApplicationRequest struct {
	About     string `json:"about"`
	FleetSize int32  `json:"fleet_size"`
	City      string `json:"city"`
}

func (h *AdminHandler) HandleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req hostApplicationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	app, err := h.admin.SubmitHostApplication(r.Context(), callerID(r), req.About, req.FleetSize, req.City)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

type reviewApplicationRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

func (h *AdminHandler) HandleReviewApplication(w http.ResponseWriter, r *http.Request) {
	appID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req reviewApplicationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	app, err := h.admin.ReviewHostApplication(r.Context(), callerID(r), appID, req.Approve, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *AdminHandler) HandleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.admin.ListHostApplications(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

type blockUserRequest struct {
	Block  bool   `json:"block"`
	Reason string `json:"reason"`
}

func (h *AdminHandler) HandleBlockUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req blockUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.admin.BlockUser(r.Context(), callerID(r), userID, req.Block, req.Reason); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
