package payload

type CreditCardValidationRequest struct {
	CardNumber string `json:"card_number" validate:"required"`
	ExpiryDate string `json:"expiry_date" validate:"required"`
	CVV        string `json:"cvv"         validate:"required"`
}

type CreditCardValidationResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type PaymentConfigResponse struct {
	PublishableKey string `json:"publishablekey"`
}
