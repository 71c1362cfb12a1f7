package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"

	"drivoro-backend/internal/logger"
)

// stripeGateway charges stored payment methods via off-session PaymentIntents.
type stripeGateway struct{}

func NewStripeGateway(apiKey string) Gateway {
	stripe.Key = apiKey
	return &stripeGateway{}
}

func (g *stripeGateway) ChargeAdditionalFees(ctx context.Context, customerRef, paymentMethodRef string, amountCents int64, description string, metadata map[string]string) (*Result, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		Customer:      stripe.String(customerRef),
		PaymentMethod: stripe.String(paymentMethodRef),
		Description:   stripe.String(description),
		Confirm:       stripe.Bool(true),
		OffSession:    stripe.Bool(true),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	params.SetIdempotencyKey(uuid.NewString())

	logger.ExternalServiceCall("stripe", "paymentintent.New", "customer", customerRef, "amount_cents", amountCents)
	pi, err := paymentintent.New(params)
	if err != nil {
		logger.ExternalServiceResult("stripe", "paymentintent.New", err)
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			// Card declines and SCA challenges come back as API errors
			// off-session. Both are soft failures for the caller.
			if stripeErr.Code == stripe.ErrorCodeAuthenticationRequired {
				return &Result{Status: StatusRequiresAction, ErrorMessage: stripeErr.Msg}, nil
			}
			return &Result{Status: StatusFailed, ErrorMessage: fmt.Sprintf("%s: %s", stripeErr.Code, stripeErr.Msg)}, nil
		}
		return nil, err
	}
	logger.ExternalServiceResult("stripe", "paymentintent.New", nil, "intent_id", pi.ID, "status", pi.Status)

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		chargeID := pi.ID
		if pi.LatestCharge != nil {
			chargeID = pi.LatestCharge.ID
		}
		return &Result{Status: StatusSucceeded, ChargeID: chargeID}, nil
	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation:
		return &Result{Status: StatusRequiresAction, ChargeID: pi.ID, ErrorMessage: "additional cardholder authentication required"}, nil
	default:
		return &Result{Status: StatusFailed, ChargeID: pi.ID, ErrorMessage: fmt.Sprintf("payment intent ended in status %s", pi.Status)}, nil
	}
}

func (g *stripeGateway) ChargeBooking(ctx context.Context, customerRef, paymentMethodRef string, amountCents int64, bookingID int32) (*Result, error) {
	return g.ChargeAdditionalFees(ctx, customerRef, paymentMethodRef, amountCents,
		fmt.Sprintf("Drivoro rental booking #%d", bookingID),
		map[string]string{"booking_id": strconv.Itoa(int(bookingID))})
}

func (g *stripeGateway) RefundCharge(ctx context.Context, chargeID string, amountCents int64, reason string) (*Result, error) {
	params := &stripe.RefundParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Charge: stripe.String(chargeID),
		Amount: stripe.Int64(amountCents),
	}
	if reason != "" {
		params.AddMetadata("reason", reason)
	}
	params.SetIdempotencyKey(uuid.NewString())

	logger.ExternalServiceCall("stripe", "refund.New", "charge_id", chargeID, "amount_cents", amountCents)
	ref, err := refund.New(params)
	if err != nil {
		logger.ExternalServiceResult("stripe", "refund.New", err)
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return &Result{Status: StatusFailed, ErrorMessage: fmt.Sprintf("%s: %s", stripeErr.Code, stripeErr.Msg)}, nil
		}
		return nil, err
	}
	logger.ExternalServiceResult("stripe", "refund.New", nil, "refund_id", ref.ID, "status", ref.Status)

	if ref.Status == stripe.RefundStatusSucceeded || ref.Status == stripe.RefundStatusPending {
		return &Result{Status: StatusSucceeded, ChargeID: ref.ID}, nil
	}
	return &Result{Status: StatusFailed, ChargeID: ref.ID, ErrorMessage: fmt.Sprintf("refund ended in status %s", ref.Status)}, nil
}
