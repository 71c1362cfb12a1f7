package http

import (
	"net/http"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/service"
)

type BookingHandler struct {
	bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type createBookingRequest struct {
	CarID     int32  `json:"car_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h *BookingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), callerID(r), req.CarID, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

type bookingResponse struct {
	Booking       *domain.RentalBooking `json:"booking"`
	PaymentResult *paymentResultBody    `json:"payment_result,omitempty"`
}

func (h *BookingHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	booking, result, err := h.bookings.ConfirmBooking(r.Context(), callerID(r), bookingID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := bookingResponse{Booking: booking}
	if result != nil {
		resp.PaymentResult = &paymentResultBody{
			Status:       string(result.Status),
			ChargeID:     result.ChargeID,
			ErrorMessage: result.ErrorMessage,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req cancelBookingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookings.CancelBooking(r.Context(), callerID(r), bookingID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type tripCheckRequest struct {
	Odometer  int32 `json:"odometer"`
	FuelLevel int32 `json:"fuel_level"`
}

func (h *BookingHandler) HandleStartTrip(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req tripCheckRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookings.StartTrip(r.Context(), callerID(r), bookingID, req.Odometer, req.FuelLevel)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type completeTripResponse struct {
	Booking *domain.RentalBooking `json:"booking"`
	Charge  *domain.TripCharge    `json:"charge,omitempty"`
}

func (h *BookingHandler) HandleCompleteTrip(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req tripCheckRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	booking, charge, err := h.bookings.CompleteTrip(r.Context(), callerID(r), bookingID, req.Odometer, req.FuelLevel)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, completeTripResponse{Booking: booking, Charge: charge})
}

func (h *BookingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookings.GetBooking(r.Context(), callerID(r), bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	status := r.URL.Query().Get("status")

	bookings, total, err := h.bookings.ListGuestBookings(r.Context(), callerID(r), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: bookings, Total: total, Page: page, PageSize: pageSize})
}

func (h *BookingHandler) HandleListHosted(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	status := r.URL.Query().Get("status")

	bookings, total, err := h.bookings.ListHostBookings(r.Context(), callerID(r), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: bookings, Total: total, Page: page, PageSize: pageSize})
}
