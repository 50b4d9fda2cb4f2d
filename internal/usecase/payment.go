package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/cinematic-app/cinematic-api/internal/config"
	"github.com/cinematic-app/cinematic-api/internal/security"
)

// Subscription price in cents; the product has a single flat plan.
const (
	paymentAmountCents = 9900
	paymentCurrency    = "usd"
)

var supportedCurrencies = map[string]bool{
	"usd": true,
	"eur": true,
	"gbp": true,
}

// CardValidationResult is the outcome of a credit card validation. Invalid
// input is a result, not an error.
type CardValidationResult struct {
	Valid   bool
	Message string
}

// PaymentUsecase defines the business logic for payment intents, card
// validation and webhook intake.
type PaymentUsecase interface {
	// CreatePaymentIntent opens a payment intent with the gateway and returns
	// its client secret for the frontend to confirm.
	CreatePaymentIntent(ctx context.Context) (string, error)

	// ValidateCreditCard checks the card number (Luhn), expiry (MM/YY, not in
	// the past) and CVV format.
	ValidateCreditCard(cardNumber, expiry, cvv string) CardValidationResult

	// HandleWebhook checks a webhook payload's signature and acknowledges the
	// event. Event processing beyond intake belongs to the gateway integration.
	HandleWebhook(payload []byte, signatureHeader string) error
}

type paymentUsecase struct {
	sc            *client.API
	webhookSecret string
	logger        *zerolog.Logger
}

// NewPaymentUsecase creates a new instance of PaymentUsecase.
func NewPaymentUsecase(cfg config.StripeConfig, logger *zerolog.Logger) PaymentUsecase {
	sc := &client.API{}
	sc.Init(cfg.SecretKey, nil)

	return &paymentUsecase{
		sc:            sc,
		webhookSecret: cfg.WebhookSecret,
		logger:        logger,
	}
}

func (u *paymentUsecase) CreatePaymentIntent(ctx context.Context) (string, error) {
	if err := validatePaymentAmount(paymentAmountCents, paymentCurrency); err != nil {
		return "", err
	}

	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context:        ctx,
			IdempotencyKey: stripe.String(uuid.NewString()),
		},
		Amount:             stripe.Int64(paymentAmountCents),
		Currency:           stripe.String(paymentCurrency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}

	intent, err := u.sc.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}

	return intent.ClientSecret, nil
}

func (u *paymentUsecase) ValidateCreditCard(cardNumber, expiry, cvv string) CardValidationResult {
	if !security.LuhnValid(cardNumber) {
		return CardValidationResult{Valid: false, Message: "Invalid credit card number"}
	}

	expiryDate, err := time.Parse("01/06", expiry)
	if err != nil {
		return CardValidationResult{
			Valid:   false,
			Message: "Invalid expiration date format. Please use MM/YY format",
		}
	}
	if expiryDate.Before(time.Now()) {
		return CardValidationResult{Valid: false, Message: "Credit card has expired"}
	}

	if !validCVV(cvv) {
		return CardValidationResult{
			Valid:   false,
			Message: "Invalid CVV format. CVV should be a 3 or 4 digit number",
		}
	}

	return CardValidationResult{Valid: true, Message: "Credit card is valid"}
}

func (u *paymentUsecase) HandleWebhook(payload []byte, signatureHeader string) error {
	event, err := webhook.ConstructEvent(payload, signatureHeader, u.webhookSecret)
	if err != nil {
		return fmt.Errorf("failed to verify webhook signature: %w", err)
	}

	u.logger.Info().Str("type", string(event.Type)).Str("id", event.ID).Msg("received stripe event")

	return nil
}

func validatePaymentAmount(amount int64, currency string) error {
	if amount <= 0 {
		return fmt.Errorf("invalid amount: must be a positive integer representing cents")
	}
	if !supportedCurrencies[currency] {
		return fmt.Errorf("unsupported currency %q", currency)
	}

	return nil
}

func validCVV(cvv string) bool {
	if len(cvv) != 3 && len(cvv) != 4 {
		return false
	}
	for _, c := range cvv {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}
