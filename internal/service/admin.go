package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/logger"
	"drivoro-backend/internal/repository"
)

type adminService struct {
	appRepo  repository.HostApplicationRepository
	userRepo repository.UserRepository
	noteRepo repository.NotificationRepository
	emailSvc EmailService
}

func NewAdminService(
	appRepo repository.HostApplicationRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) AdminService {
	return &adminService{
		appRepo:  appRepo,
		userRepo: userRepo,
		noteRepo: noteRepo,
		emailSvc: emailSvc,
	}
}

func (s *adminService) SubmitHostApplication(ctx context.Context, userID int32, about string, fleetSize int32, city string) (*domain.HostApplication, error) {
	logger.EnterMethod("SubmitHostApplication", "user_id", userID)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleHost {
		return nil, fmt.Errorf("%w: user is already a host", domain.ErrValidation)
	}
	if fleetSize < 1 {
		return nil, fmt.Errorf("%w: fleet size must be at least 1", domain.ErrValidation)
	}
	if city == "" {
		return nil, fmt.Errorf("%w: city is required", domain.ErrValidation)
	}

	if pending, err := s.appRepo.GetPendingByUser(ctx, userID); err == nil && pending != nil {
		return nil, fmt.Errorf("%w: an application is already pending review", domain.ErrValidation)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	app := &domain.HostApplication{
		UserID:    userID,
		About:     about,
		FleetSize: fleetSize,
		City:      city,
		Status:    domain.HostApplicationStatusPending,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	note := &domain.AdminNotification{
		Title:    "New host application",
		Message:  fmt.Sprintf("%s applied to host %d car(s) in %s.", user.Name, fleetSize, city),
		Priority: domain.NotificationPriorityNormal,
		Attributes: map[string]string{
			"application_id": fmt.Sprintf("%d", app.ID),
			"user_id":        fmt.Sprintf("%d", userID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to create host application notification", "application_id", app.ID, "error", err)
	}

	logger.ExitMethod("SubmitHostApplication", "application_id", app.ID)
	return app, nil
}

// ReviewHostApplication approves or rejects a pending application. Approval
// promotes the applicant to HOST.
func (s *adminService) ReviewHostApplication(ctx context.Context, adminID, applicationID int32, approve bool, note string) (*domain.HostApplication, error) {
	logger.EnterMethod("ReviewHostApplication", "application_id", applicationID, "admin_id", adminID, "approve", approve)

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.HostApplicationStatusPending {
		return nil, fmt.Errorf("%w: application was already reviewed", domain.ErrValidation)
	}

	now := time.Now()
	app.ReviewNote = note
	app.ReviewedBy = &adminID
	app.ReviewedOn = &now
	if approve {
		app.Status = domain.HostApplicationStatusApproved
	} else {
		app.Status = domain.HostApplicationStatusRejected
	}
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, app.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading applicant %d: %w", app.UserID, err)
	}
	if approve {
		user.Role = domain.RoleHost
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("promoting applicant %d: %w", app.UserID, err)
		}
	}

	if err := s.emailSvc.SendHostApplicationOutcome(ctx, user.Email, user.Name, approve, note); err != nil {
		logger.Error("Failed to send application outcome email", "application_id", applicationID, "error", err)
	}

	logger.ExitMethod("ReviewHostApplication", "application_id", applicationID, "status", app.Status)
	return app, nil
}

func (s *adminService) ListHostApplications(ctx context.Context, status string) ([]domain.HostApplication, error) {
	return s.appRepo.ListByStatus(ctx, status)
}

func (s *adminService) BlockUser(ctx context.Context, adminID, userID int32, block bool, reason string) error {
	if adminID == userID {
		return fmt.Errorf("%w: admins cannot block themselves", domain.ErrValidation)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == domain.RoleAdmin {
		return fmt.Errorf("%w: admin accounts cannot be blocked", domain.ErrForbidden)
	}

	user.IsBlocked = block
	if block {
		user.BlockReason = reason
	} else {
		user.BlockReason = ""
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	logger.Info("User block state changed", "user_id", userID, "blocked", block, "admin_id", adminID)
	return nil
}
