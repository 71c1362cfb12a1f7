package http

import (
	"net/http"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/service"
)

type ChargeHandler struct {
	charges service.ChargeService
}

func NewChargeHandler(charges service.ChargeService) *ChargeHandler {
	return &ChargeHandler{charges: charges}
}

type adjustmentLineRequest struct {
	Type          string `json:"type"`
	OriginalCents int64  `json:"originalAmount"`
	AdjustedCents int64  `json:"adjustedAmount"`
	Included      bool   `json:"included"`
}

type adjustChargeRequest struct {
	Adjustments        []adjustmentLineRequest `json:"adjustments"`
	WaivePercentage    float64                 `json:"waivePercentage"`
	WaiveReason        string                  `json:"waiveReason"`
	ProcessImmediately bool                    `json:"processImmediately"`
	AdminNotes         string                  `json:"adminNotes"`
}

type adjustChargeResponse struct {
	Success       bool                     `json:"success"`
	Message       string                   `json:"message"`
	ChargeStatus  domain.ChargeStatus      `json:"chargeStatus"`
	Adjustment    *domain.ChargeAdjustment `json:"adjustment,omitempty"`
	PaymentResult *paymentResultBody       `json:"paymentResult,omitempty"`
}

type paymentResultBody struct {
	Status       string `json:"status"`
	ChargeID     string `json:"chargeId,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
}

// HandleAdjust applies an admin adjustment to a trip charge. A declined
// payment is a successful request: the response carries chargeStatus
// ADJUSTMENT_FAILED rather than an error status.
func (h *ChargeHandler) HandleAdjust(w http.ResponseWriter, r *http.Request) {
	chargeID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req adjustChargeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	in := service.AdjustChargeInput{
		WaivePercentage:    req.WaivePercentage,
		WaiveReason:        req.WaiveReason,
		ProcessImmediately: req.ProcessImmediately,
		AdminNotes:         req.AdminNotes,
	}
	for _, l := range req.Adjustments {
		in.Lines = append(in.Lines, domain.AdjustmentLine{
			Type:          domain.ChargeCategory(l.Type),
			OriginalCents: l.OriginalCents,
			AdjustedCents: l.AdjustedCents,
			Included:      l.Included,
		})
	}

	outcome, err := h.charges.AdjustCharge(r.Context(), callerID(r), chargeID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, adjustOutcomeBody(outcome))
}

func (h *ChargeHandler) HandleRetry(w http.ResponseWriter, r *http.Request) {
	chargeID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	outcome, err := h.charges.RetryFailedCharge(r.Context(), callerID(r), chargeID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, adjustOutcomeBody(outcome))
}

type refundChargeRequest struct {
	Reason string `json:"reason"`
}

func (h *ChargeHandler) HandleRefund(w http.ResponseWriter, r *http.Request) {
	chargeID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req refundChargeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	charge, err := h.charges.RefundCharge(r.Context(), callerID(r), chargeID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, adjustChargeResponse{
		Success:      true,
		Message:      "charge refunded",
		ChargeStatus: charge.Status,
	})
}

func (h *ChargeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	chargeID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	charge, err := h.charges.GetCharge(r.Context(), chargeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, charge)
}

type adjustmentHistoryResponse struct {
	Charge              *domain.TripCharge        `json:"charge"`
	Adjustments         []domain.ChargeAdjustment `json:"adjustments"`
	TotalReductionCents int64                     `json:"totalReduction"`
}

func (h *ChargeHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	chargeID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	charge, adjustments, reduction, err := h.charges.GetAdjustmentHistory(r.Context(), chargeID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, adjustmentHistoryResponse{
		Charge:              charge,
		Adjustments:         adjustments,
		TotalReductionCents: reduction,
	})
}

func adjustOutcomeBody(outcome *service.AdjustmentOutcome) adjustChargeResponse {
	resp := adjustChargeResponse{
		Success:      outcome.Charge.Status != domain.ChargeStatusAdjustmentFailed,
		ChargeStatus: outcome.Charge.Status,
		Adjustment:   outcome.Adjustment,
	}
	switch outcome.Charge.Status {
	case domain.ChargeStatusAdjustmentFailed:
		resp.Message = "adjustment recorded but payment failed"
	case domain.ChargeStatusFullyWaived:
		resp.Message = "charge fully waived"
	case domain.ChargeStatusAdjustedCharged:
		resp.Message = "adjustment recorded and payment collected"
	default:
		resp.Message = "adjustment recorded"
	}
	if outcome.Payment != nil {
		resp.PaymentResult = &paymentResultBody{
			Status:       string(outcome.Payment.Status),
			ChargeID:     outcome.Payment.ChargeID,
			ErrorMessage: outcome.Payment.ErrorMessage,
		}
	}
	return resp
}
