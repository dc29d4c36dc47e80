package api

import (
	"bytes"
	"encoding/json"
	"time"
)

// FlexString decodes either a JSON string or a JSON number. Tour ids arrive
// as numbers from the static tour catalogue and as strings elsewhere.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BookingMetadata defines model for BookingMetadata.
type BookingMetadata struct {
	TourId        *FlexString `json:"tourId,omitempty"`
	TourName      *string     `json:"tourName,omitempty"`
	Guests        *int        `json:"guests,omitempty"`
	CustomerName  *string     `json:"customerName,omitempty"`
	CustomerEmail *string     `json:"customerEmail,omitempty"`
	CustomerPhone *string     `json:"customerPhone,omitempty"`
}

// CheckoutRequest defines model for CheckoutRequest.
type CheckoutRequest struct {
	Amount        *int64      `json:"amount,omitempty"`
	Currency      *string     `json:"currency,omitempty"`
	TourId        *FlexString `json:"tourId,omitempty"`
	TourName      *string     `json:"tourName,omitempty"`
	Guests        *int        `json:"guests,omitempty"`
	CustomerName  *string     `json:"customerName,omitempty"`
	CustomerEmail *string     `json:"customerEmail,omitempty"`
	CustomerPhone *string     `json:"customerPhone,omitempty"`

	Metadata *BookingMetadata `json:"metadata,omitempty"`
}

// CheckoutResponse defines model for CheckoutResponse.
type CheckoutResponse struct {
	Id          string `json:"id"`
	RedirectUrl string `json:"redirectUrl"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
}

// Defines values for ExchangeRateSource.
const (
	SourceCache    ExchangeRateSource = "cache"
	SourceLive     ExchangeRateSource = "live"
	SourceFallback ExchangeRateSource = "fallback"
)

// ExchangeRateSource defines model for ExchangeRate.Source.
type ExchangeRateSource string

// ExchangeRate defines model for ExchangeRate.
type ExchangeRate struct {
	Base      string             `json:"base"`
	Quote     string             `json:"quote"`
	Rate      float64            `json:"rate"`
	Source    ExchangeRateSource `json:"source"`
	FetchedAt time.Time          `json:"fetchedAt"`
}

// PriceConversion defines model for PriceConversion.
type PriceConversion struct {
	Amount        string  `json:"amount"`
	Currency      string  `json:"currency"`
	Formatted     string  `json:"formatted"`
	Rate          float64 `json:"rate"`
	AmountInCents int64   `json:"amountInCents"`
}

// CheckoutRecord defines model for CheckoutRecord.
type CheckoutRecord struct {
	Id            string    `json:"id"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	RedirectUrl   string    `json:"redirectUrl"`
	TourId        string    `json:"tourId,omitempty"`
	TourName      string    `json:"tourName,omitempty"`
	Guests        int       `json:"guests,omitempty"`
	CustomerName  string    `json:"customerName,omitempty"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// GetPricesConvertParams defines parameters for GetPricesConvert.
type GetPricesConvertParams struct {
	Amount   string `form:"amount" json:"amount"`
	Currency string `form:"currency" json:"currency"`
	Guests   *int   `form:"guests,omitempty" json:"guests,omitempty"`
}

// PostYocoCheckoutParams defines parameters for PostYocoCheckout.
type PostYocoCheckoutParams struct {
	IdempotencyKey *string `json:"Idempotency-Key,omitempty"`
}

// PostYocoCheckoutJSONRequestBody defines body for PostYocoCheckout for application/json ContentType.
type PostYocoCheckoutJSONRequestBody = CheckoutRequest

func (f FlexString) String() string { return string(f) }
