package service

import (
	"context"
	"fmt"
	"time"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/repository"
)

type carService struct {
	carRepo repository.CarRepository
}

func NewCarService(carRepo repository.CarRepository) CarService {
	return &carService{carRepo: carRepo}
}

func (s *carService) AddCar(ctx context.Context, car *domain.Car) error {
	if err := validateCar(car); err != nil {
		return err
	}
	if car.Status == "" {
		car.Status = domain.CarStatusActive
	}
	if car.FuelPolicy == "" {
		car.FuelPolicy = domain.FuelPolicyFullToFull
	}
	return s.carRepo.Create(ctx, car)
}

func (s *carService) GetCar(ctx context.Context, id int32) (*domain.Car, error) {
	return s.carRepo.GetByID(ctx, id)
}

func (s *carService) UpdateCar(ctx context.Context, hostID int32, car *domain.Car) error {
	existing, err := s.carRepo.GetByID(ctx, car.ID)
	if err != nil {
		return err
	}
	if existing.HostID != hostID {
		return fmt.Errorf("%w: car belongs to another host", domain.ErrForbidden)
	}
	if err := validateCar(car); err != nil {
		return err
	}
	car.HostID = existing.HostID
	return s.carRepo.Update(ctx, car)
}

func (s *carService) DeleteCar(ctx context.Context, hostID, carID int32) error {
	existing, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return err
	}
	if existing.HostID != hostID {
		return fmt.Errorf("%w: car belongs to another host", domain.ErrForbidden)
	}
	return s.carRepo.Delete(ctx, carID)
}

func (s *carService) ListFleet(ctx context.Context, hostID int32, page, pageSize int32) ([]domain.Car, int32, error) {
	return s.carRepo.ListByHost(ctx, hostID, page, pageSize)
}

func (s *carService) SearchCars(ctx context.Context, city, from, to string, page, pageSize int32) ([]domain.Car, int32, error) {
	if city == "" {
		return nil, 0, fmt.Errorf("%w: city is required", domain.ErrValidation)
	}
	if from != "" || to != "" {
		if _, err := time.Parse("2006-01-02", from); err != nil {
			return nil, 0, fmt.Errorf("%w: invalid from date %q", domain.ErrValidation, from)
		}
		if _, err := time.Parse("2006-01-02", to); err != nil {
			return nil, 0, fmt.Errorf("%w: invalid to date %q", domain.ErrValidation, to)
		}
	}
	return s.carRepo.Search(ctx, city, from, to, page, pageSize)
}

func (s *carService) SetCarStatus(ctx context.Context, hostID, carID int32, status domain.CarStatus) error {
	existing, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return err
	}
	if existing.HostID != hostID {
		return fmt.Errorf("%w: car belongs to another host", domain.ErrForbidden)
	}
	switch status {
	case domain.CarStatusActive, domain.CarStatusUnlisted, domain.CarStatusMaintenance:
	default:
		return fmt.Errorf("%w: unknown car status %q", domain.ErrValidation, status)
	}
	existing.Status = status
	return s.carRepo.Update(ctx, existing)
}

func validateCar(car *domain.Car) error {
	switch {
	case car.Make == "" || car.Model == "":
		return fmt.Errorf("%w: make and model are required", domain.ErrValidation)
	case car.Year < 1980:
		return fmt.Errorf("%w: year %d is not a valid model year", domain.ErrValidation, car.Year)
	case car.City == "":
		return fmt.Errorf("%w: city is required", domain.ErrValidation)
	case car.DailyPriceCents <= 0:
		return fmt.Errorf("%w: daily price must be positive", domain.ErrValidation)
	case car.IncludedMilesPerDay < 0 || car.ExtraMileFeeCents < 0:
		return fmt.Errorf("%w: mileage terms cannot be negative", domain.ErrValidation)
	}
	return nil
}
