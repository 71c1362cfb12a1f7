package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/logger"
	"drivoro-backend/internal/repository"
)

type claimService struct {
	claimRepo   repository.ClaimRepository
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
	noteRepo    repository.NotificationRepository
	emailSvc    EmailService
}

func NewClaimService(
	claimRepo repository.ClaimRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) ClaimService {
	return &claimService{
		claimRepo:   claimRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		noteRepo:    noteRepo,
		emailSvc:    emailSvc,
	}
}

func (s *claimService) FileClaim(ctx context.Context, claim *domain.Claim) error {
	logger.EnterMethod("FileClaim", "booking_id", claim.BookingID, "filed_by", claim.FiledBy)

	booking, err := s.bookingRepo.GetByID(ctx, claim.BookingID)
	if err != nil {
		return err
	}
	if booking.HostID != claim.FiledBy && booking.GuestID != claim.FiledBy {
		return fmt.Errorf("%w: not a party to this booking", domain.ErrForbidden)
	}
	if claim.Description == "" {
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if claim.EstimatedCents < 0 {
		return fmt.Errorf("%w: estimated amount cannot be negative", domain.ErrValidation)
	}

	claim.Reference = "CLM-" + strings.ToUpper(uuid.NewString()[:8])
	claim.Status = domain.ClaimStatusFiled

	if err := s.claimRepo.Create(ctx, claim); err != nil {
		return err
	}

	note := &domain.AdminNotification{
		Title:    "New damage claim filed",
		Message:  fmt.Sprintf("Claim %s filed on booking #%d, estimated at %s.", claim.Reference, claim.BookingID, formatCents(claim.EstimatedCents)),
		Priority: domain.NotificationPriorityHigh,
		Attributes: map[string]string{
			"claim_id":   fmt.Sprintf("%d", claim.ID),
			"booking_id": fmt.Sprintf("%d", claim.BookingID),
			"reference":  claim.Reference,
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to create claim notification", "claim_id", claim.ID, "error", err)
	}

	if filer, err := s.userRepo.GetByID(ctx, claim.FiledBy); err == nil {
		if err := s.emailSvc.SendClaimFiledNotice(ctx, filer.Email, filer.Name, claim.Reference); err != nil {
			logger.Error("Failed to send claim confirmation email", "claim_id", claim.ID, "error", err)
		}
	}

	logger.ExitMethod("FileClaim", "claim_id", claim.ID, "reference", claim.Reference)
	return nil
}

func (s *claimService) GetClaim(ctx context.Context, id int32) (*domain.Claim, error) {
	return s.claimRepo.GetByID(ctx, id)
}

func (s *claimService) ListClaims(ctx context.Context, status string, page, pageSize int32) ([]domain.Claim, int32, error) {
	return s.claimRepo.ListByStatus(ctx, status, page, pageSize)
}

func (s *claimService) ListBookingClaims(ctx context.Context, bookingID int32) ([]domain.Claim, error) {
	return s.claimRepo.ListByBooking(ctx, bookingID)
}

func (s *claimService) UpdateClaimStatus(ctx context.Context, adminID, claimID int32, status domain.ClaimStatus, note string) (*domain.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	if !validClaimTransition(claim.Status, status) {
		return nil, fmt.Errorf("%w: claim cannot move from %s to %s", domain.ErrValidation, claim.Status, status)
	}

	claim.Status = status
	claim.ResolutionNote = note
	claim.ReviewedBy = &adminID
	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, err
	}

	logger.Info("Claim status updated", "claim_id", claimID, "status", status, "admin_id", adminID)
	return claim, nil
}

func validClaimTransition(from, to domain.ClaimStatus) bool {
	switch from {
	case domain.ClaimStatusFiled:
		return to == domain.ClaimStatusUnderReview || to == domain.ClaimStatusDenied
	case domain.ClaimStatusUnderReview:
		return to == domain.ClaimStatusApproved || to == domain.ClaimStatusDenied
	case domain.ClaimStatusApproved:
		return to == domain.ClaimStatusSettled
	default:
		return false
	}
}
