package http

import (
	"net/http"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/service"
)

type CarHandler struct {
	cars service.CarService
}

func NewCarHandler(cars service.CarService) *CarHandler {
	return &CarHandler{cars: cars}
}

type carRequest struct {
	Make                string `json:"make"`
	Model               string `json:"model"`
	Year                int32  `json:"year"`
	Plate               string `json:"plate"`
	City                string `json:"city"`
	DailyPriceCents     int64  `json:"daily_price_cents"`
	IncludedMilesPerDay int32  `json:"included_miles_per_day"`
	ExtraMileFeeCents   int64  `json:"extra_mile_fee_cents"`
	FuelPolicy          string `json:"fuel_policy"`
	Description         string `json:"description"`
}

func (r carRequest) toDomain(hostID int32) *domain.Car {
	return &domain.Car{
		HostID:              hostID,
		Make:                r.Make,
		Model:               r.Model,
		Year:                r.Year,
		Plate:               r.Plate,
		City:                r.City,
		DailyPriceCents:     r.DailyPriceCents,
		IncludedMilesPerDay: r.IncludedMilesPerDay,
		ExtraMileFeeCents:   r.ExtraMileFeeCents,
		FuelPolicy:          domain.FuelPolicy(r.FuelPolicy),
		Description:         r.Description,
	}
}

func (h *CarHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req carRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	car := req.toDomain(callerID(r))
	if err := h.cars.AddCar(r.Context(), car); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, car)
}

func (h *CarHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	carID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	car, err := h.cars.GetCar(r.Context(), carID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *CarHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	carID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req carRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	car := req.toDomain(callerID(r))
	car.ID = carID
	if err := h.cars.UpdateCar(r.Context(), callerID(r), car); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *CarHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	carID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.cars.DeleteCar(r.Context(), callerID(r), carID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type carStatusRequest struct {
	Status string `json:"status"`
}

func (h *CarHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	carID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req carStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.cars.SetCarStatus(r.Context(), callerID(r), carID, domain.CarStatus(req.Status)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *CarHandler) HandleListFleet(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	cars, total, err := h.cars.ListFleet(r.Context(), callerID(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: cars, Total: total, Page: page, PageSize: pageSize})
}

func (h *CarHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	q := r.URL.Query()
	cars, total, err := h.cars.SearchCars(r.Context(), q.Get("city"), q.Get("from"), q.Get("to"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: cars, Total: total, Page: page, PageSize: pageSize})
}
