package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/logger"
	"drivoro-backend/internal/payment"
	"drivoro-backend/internal/repository"
	"drivoro-backend/internal/utils"
)

const messageSender = "Drivoro Support"

type chargeService struct {
	chargeRepo  repository.ChargeRepository
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
	gateway     payment.Gateway
	emailSvc    EmailService
}

func NewChargeService(
	chargeRepo repository.ChargeRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	gateway payment.Gateway,
	emailSvc EmailService,
) ChargeService {
	return &chargeService{
		chargeRepo:  chargeRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		emailSvc:    emailSvc,
	}
}

func (s *chargeService) GetCharge(ctx context.Context, chargeID int32) (*domain.TripCharge, error) {
	return s.chargeRepo.GetByID(ctx, chargeID)
}

func validateAdjustment(in AdjustChargeInput) error {
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: at least one adjustment line is required", domain.ErrValidation)
	}
	for _, line := range in.Lines {
		if line.OriginalCents < 0 || line.AdjustedCents < 0 {
			return fmt.Errorf("%w: %s line has a negative amount", domain.ErrValidation, line.Type)
		}
	}
	if in.WaivePercentage < 0 || in.WaivePercentage > 100 {
		return fmt.Errorf("%w: waive percentage must be between 0 and 100", domain.ErrValidation)
	}
	return nil
}

func (s *chargeService) AdjustCharge(ctx context.Context, adminID, chargeID int32, in AdjustChargeInput) (*AdjustmentOutcome, error) {
	logger.EnterMethod("chargeService.AdjustCharge", "adminID", adminID, "chargeID", chargeID)

	charge, err := s.chargeRepo.GetByID(ctx, chargeID)
	if err != nil {
		logger.ExitMethodWithError("chargeService.AdjustCharge", err, "chargeID", chargeID)
		return nil, err
	}
	if charge.Status.IsFinal() {
		err := fmt.Errorf("%w: charge %d is %s", domain.ErrAlreadyFinalized, chargeID, charge.Status)
		logger.ExitMethodWithError("chargeService.AdjustCharge", err, "chargeID", chargeID)
		return nil, err
	}
	if err := validateAdjustment(in); err != nil {
		logger.ExitMethodWithError("chargeService.AdjustCharge", err, "chargeID", chargeID)
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, charge.BookingID)
	if err != nil {
		return nil, fmt.Errorf("loading booking %d: %w", charge.BookingID, err)
	}
	guest, err := s.userRepo.GetByID(ctx, booking.GuestID)
	if err != nil {
		return nil, fmt.Errorf("loading guest %d: %w", booking.GuestID, err)
	}

	var subtotal int64
	for _, line := range in.Lines {
		if line.Included {
			subtotal += line.AdjustedCents
		}
	}
	finalTotal := utils.ApplyWaiver(subtotal, in.WaivePercentage)
	if finalTotal > charge.TotalCents {
		finalTotal = charge.TotalCents
	}
	beforeCents := charge.AdjustedCents

	updated := *charge
	updated.AdjustedCents = finalTotal
	updated.WaivePercentage = in.WaivePercentage
	updated.WaiveReason = in.WaiveReason

	adjustment := &domain.ChargeAdjustment{
		ChargeID:        charge.ID,
		AdminID:         adminID,
		BeforeCents:     beforeCents,
		AfterCents:      finalTotal,
		WaivePercentage: in.WaivePercentage,
		WaiveReason:     in.WaiveReason,
		Lines:           in.Lines,
		AdminNotes:      in.AdminNotes,
	}

	var result *payment.Result
	switch {
	case finalTotal == 0:
		updated.Status = domain.ChargeStatusFullyWaived
		adjustment.Status = domain.AdjustmentStatusWaivedInFull
	case in.ProcessImmediately:
		result = s.collect(ctx, guest, booking, finalTotal)
		if result.Succeeded() {
			updated.Status = domain.ChargeStatusAdjustedCharged
			updated.StripeChargeID = result.ChargeID
			adjustment.Status = domain.AdjustmentStatusPaymentSucceeded
			adjustment.StripeChargeID = result.ChargeID
		} else {
			updated.Status = domain.ChargeStatusAdjustmentFailed
			adjustment.Status = domain.AdjustmentStatusPaymentFailed
			adjustment.PaymentError = result.ErrorMessage
		}
	default:
		updated.Status = domain.ChargeStatusAdjustedPending
		adjustment.Status = domain.AdjustmentStatusRecorded
	}

	commit := &domain.AdjustmentCommit{
		Charge:       &updated,
		Adjustment:   adjustment,
		Booking:      settleBooking(booking, updated.Status, finalTotal),
		Notification: s.adjustmentNotification(adminID, &updated, adjustment),
		Message:      guestMessage(booking, guest, in, beforeCents, finalTotal, updated.Status),
	}

	if err := s.chargeRepo.ApplyAdjustment(ctx, commit); err != nil {
		logger.ExitMethodWithError("chargeService.AdjustCharge", err, "chargeID", chargeID)
		return nil, err
	}

	// Best-effort emails after the transaction commits.
	if updated.Status == domain.ChargeStatusAdjustmentFailed {
		_ = s.emailSvc.SendPaymentFailureAlert(ctx,
			fmt.Sprintf("Charge attempt failed for booking #%d", booking.ID),
			fmt.Sprintf("Adjusted charge of %s could not be collected from %s: %s", formatCents(finalTotal), guest.Email, result.ErrorMessage))
	} else {
		_ = s.emailSvc.SendChargeAdjustedNotice(ctx, guest.Email, guest.Name, booking.ID, beforeCents, finalTotal, commit.Message.Body)
	}

	logger.ExitMethod("chargeService.AdjustCharge", "chargeID", chargeID, "status", updated.Status, "final_cents", finalTotal)
	return &AdjustmentOutcome{Charge: &updated, Adjustment: adjustment, Payment: result}, nil
}

// collect performs the single gateway call for a submission. Transport errors
// and gateway declines both come back as a failed result, never as an error.
func (s *chargeService) collect(ctx context.Context, guest *domain.User, booking *domain.RentalBooking, amountCents int64) *payment.Result {
	if !guest.HasSavedPaymentMethod() {
		return &payment.Result{Status: payment.StatusFailed, ErrorMessage: "guest has no saved payment method"}
	}
	result, err := s.gateway.ChargeAdditionalFees(ctx, guest.StripeCustomerID, guest.DefaultPaymentMethodID, amountCents,
		fmt.Sprintf("Drivoro post-trip charges, booking #%d", booking.ID),
		map[string]string{
			"booking_id": strconv.Itoa(int(booking.ID)),
			"guest_id":   strconv.Itoa(int(booking.GuestID)),
		})
	if err != nil {
		logger.Error("Payment gateway call failed", "booking_id", booking.ID, "error", err)
		return &payment.Result{Status: payment.StatusFailed, ErrorMessage: err.Error()}
	}
	// SCA challenges cannot be completed off-session; treat like a decline
	// and leave resolution to an admin.
	if result.Status == payment.StatusRequiresAction {
		return &payment.Result{Status: payment.StatusFailed, ChargeID: result.ChargeID, ErrorMessage: "requires_action: " + result.ErrorMessage}
	}
	return result
}

// settleBooking derives the booking-side update for a charge outcome.
func settleBooking(booking *domain.RentalBooking, status domain.ChargeStatus, finalTotal int64) *domain.RentalBooking {
	b := *booking
	switch status {
	case domain.ChargeStatusFullyWaived, domain.ChargeStatusAdjustedCharged, domain.ChargeStatusRefunded:
		b.PaymentStatus = domain.PaymentStatusSettled
		b.PendingChargesCents = 0
	default:
		b.PaymentStatus = domain.PaymentStatusPartial
		b.PendingChargesCents = finalTotal
	}
	return &b
}

func (s *chargeService) adjustmentNotification(adminID int32, charge *domain.TripCharge, adj *domain.ChargeAdjustment) *domain.AdminNotification {
	attrs := map[string]string{
		"charge_id":  strconv.Itoa(int(charge.ID)),
		"booking_id": strconv.Itoa(int(charge.BookingID)),
		"admin_id":   strconv.Itoa(int(adminID)),
		"outcome":    string(charge.Status),
	}
	if charge.Status == domain.ChargeStatusAdjustmentFailed {
		return &domain.AdminNotification{
			Title:      "Charge attempt failed",
			Message:    fmt.Sprintf("Adjusted charge of %s for booking #%d could not be collected: %s. Manual follow-up required.", formatCents(adj.AfterCents), charge.BookingID, adj.PaymentError),
			Priority:   domain.NotificationPriorityHigh,
			Attributes: attrs,
		}
	}
	return &domain.AdminNotification{
		Title:      "Trip charge adjusted",
		Message:    fmt.Sprintf("Charge #%d on booking #%d adjusted from %s to %s (%s).", charge.ID, charge.BookingID, formatCents(adj.BeforeCents), formatCents(adj.AfterCents), charge.Status),
		Priority:   domain.NotificationPriorityNormal,
		Attributes: attrs,
	}
}

// guestMessage summarizes per-line reductions and the waiver for the guest.
func guestMessage(booking *domain.RentalBooking, guest *domain.User, in AdjustChargeInput, beforeCents, finalTotal int64, status domain.ChargeStatus) *domain.RentalMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s, we reviewed the extra charges on your booking #%d.\n", guest.Name, booking.ID)
	for _, line := range in.Lines {
		if !line.Included {
			fmt.Fprintf(&b, "- %s: %s removed\n", line.Type, formatCents(line.OriginalCents))
			continue
		}
		if r := line.ReductionCents(); r > 0 {
			fmt.Fprintf(&b, "- %s: reduced by %s to %s\n", line.Type, formatCents(r), formatCents(line.AdjustedCents))
		} else {
			fmt.Fprintf(&b, "- %s: %s\n", line.Type, formatCents(line.AdjustedCents))
		}
	}
	if in.WaivePercentage > 0 {
		fmt.Fprintf(&b, "A %.0f%% goodwill waiver was applied", in.WaivePercentage)
		if in.WaiveReason != "" {
			fmt.Fprintf(&b, " (%s)", in.WaiveReason)
		}
		b.WriteString(".\n")
	}
	switch status {
	case domain.ChargeStatusFullyWaived:
		b.WriteString("All remaining charges were waived. Nothing is owed.")
	case domain.ChargeStatusAdjustedCharged:
		fmt.Fprintf(&b, "The final amount of %s was charged to your saved payment method.", formatCents(finalTotal))
	default:
		fmt.Fprintf(&b, "The final amount owed is %s.", formatCents(finalTotal))
	}
	return &domain.RentalMessage{
		BookingID:   booking.ID,
		RecipientID: guest.ID,
		Sender:      messageSender,
		Subject:     fmt.Sprintf("Updated charges for booking #%d", booking.ID),
		Body:        b.String(),
	}
}

func (s *chargeService) RetryFailedCharge(ctx context.Context, adminID, chargeID int32) (*AdjustmentOutcome, error) {
	logger.EnterMethod("chargeService.RetryFailedCharge", "adminID", adminID, "chargeID", chargeID)

	charge, err := s.chargeRepo.GetByID(ctx, chargeID)
	if err != nil {
		return nil, err
	}
	if charge.Status.IsFinal() {
		return nil, fmt.Errorf("%w: charge %d is %s", domain.ErrAlreadyFinalized, chargeID, charge.Status)
	}
	if charge.Status != domain.ChargeStatusAdjustmentFailed {
		return nil, fmt.Errorf("%w: charge %d is %s, only ADJUSTMENT_FAILED charges can be retried", domain.ErrValidation, chargeID, charge.Status)
	}

	booking, err := s.bookingRepo.GetByID(ctx, charge.BookingID)
	if err != nil {
		return nil, fmt.Errorf("loading booking %d: %w", charge.BookingID, err)
	}
	guest, err := s.userRepo.GetByID(ctx, booking.GuestID)
	if err != nil {
		return nil, fmt.Errorf("loading guest %d: %w", booking.GuestID, err)
	}

	result := s.collect(ctx, guest, booking, charge.AdjustedCents)

	updated := *charge
	adjustment := &domain.ChargeAdjustment{
		ChargeID:        charge.ID,
		AdminID:         adminID,
		BeforeCents:     charge.AdjustedCents,
		AfterCents:      charge.AdjustedCents,
		WaivePercentage: charge.WaivePercentage,
		WaiveReason:     charge.WaiveReason,
		AdminNotes:      "manual retry of failed charge",
	}
	if result.Succeeded() {
		updated.Status = domain.ChargeStatusAdjustedCharged
		updated.StripeChargeID = result.ChargeID
		adjustment.Status = domain.AdjustmentStatusPaymentSucceeded
		adjustment.StripeChargeID = result.ChargeID
	} else {
		adjustment.Status = domain.AdjustmentStatusPaymentFailed
		adjustment.PaymentError = result.ErrorMessage
	}

	commit := &domain.AdjustmentCommit{
		Charge:       &updated,
		Adjustment:   adjustment,
		Booking:      settleBooking(booking, updated.Status, updated.AdjustedCents),
		Notification: s.adjustmentNotification(adminID, &updated, adjustment),
	}
	if err := s.chargeRepo.ApplyAdjustment(ctx, commit); err != nil {
		logger.ExitMethodWithError("chargeService.RetryFailedCharge", err, "chargeID", chargeID)
		return nil, err
	}

	if updated.Status == domain.ChargeStatusAdjustmentFailed {
		_ = s.emailSvc.SendPaymentFailureAlert(ctx,
			fmt.Sprintf("Charge retry failed for booking #%d", booking.ID),
			fmt.Sprintf("Retry of %s against %s failed again: %s", formatCents(updated.AdjustedCents), guest.Email, result.ErrorMessage))
	}

	logger.ExitMethod("chargeService.RetryFailedCharge", "chargeID", chargeID, "status", updated.Status)
	return &AdjustmentOutcome{Charge: &updated, Adjustment: adjustment, Payment: result}, nil
}

func (s *chargeService) RefundCharge(ctx context.Context, adminID, chargeID int32, reason string) (*domain.TripCharge, error) {
	charge, err := s.chargeRepo.GetByID(ctx, chargeID)
	if err != nil {
		return nil, err
	}
	if charge.Status != domain.ChargeStatusAdjustedCharged && charge.Status != domain.ChargeStatusCharged {
		return nil, fmt.Errorf("%w: charge %d is %s, only collected charges can be refunded", domain.ErrValidation, chargeID, charge.Status)
	}
	if charge.StripeChargeID == "" {
		return nil, fmt.Errorf("%w: charge %d has no captured payment to refund", domain.ErrValidation, chargeID)
	}

	booking, err := s.bookingRepo.GetByID(ctx, charge.BookingID)
	if err != nil {
		return nil, fmt.Errorf("loading booking %d: %w", charge.BookingID, err)
	}

	result, err := s.gateway.RefundCharge(ctx, charge.StripeChargeID, charge.AdjustedCents, reason)
	if err != nil {
		return nil, fmt.Errorf("refunding charge %d: %w", chargeID, err)
	}
	if !result.Succeeded() {
		return nil, fmt.Errorf("%w: refund declined: %s", domain.ErrValidation, result.ErrorMessage)
	}

	updated := *charge
	updated.Status = domain.ChargeStatusRefunded
	adjustment := &domain.ChargeAdjustment{
		ChargeID:    charge.ID,
		AdminID:     adminID,
		BeforeCents: charge.AdjustedCents,
		AfterCents:  charge.AdjustedCents,
		Status:      domain.AdjustmentStatusRefunded,
		AdminNotes:  "refund: " + reason,
	}
	commit := &domain.AdjustmentCommit{
		Charge:       &updated,
		Adjustment:   adjustment,
		Booking:      settleBooking(booking, updated.Status, 0),
		Notification: s.adjustmentNotification(adminID, &updated, adjustment),
	}
	if err := s.chargeRepo.ApplyAdjustment(ctx, commit); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *chargeService) GetAdjustmentHistory(ctx context.Context, chargeID int32) (*domain.TripCharge, []domain.ChargeAdjustment, int64, error) {
	charge, err := s.chargeRepo.GetByID(ctx, chargeID)
	if err != nil {
		return nil, nil, 0, err
	}
	adjustments, err := s.chargeRepo.ListAdjustments(ctx, chargeID)
	if err != nil {
		return nil, nil, 0, err
	}
	reduction := charge.TotalCents - charge.AdjustedCents
	if reduction < 0 {
		reduction = 0
	}
	return charge, adjustments, reduction, nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
