package external

// CheckoutMetadata is attached to every checkout so the booking can be
// matched up in the Yoco dashboard.
type CheckoutMetadata struct {
	TourID        string `json:"tourId,omitempty"`
	TourName      string `json:"tourName,omitempty"`
	Guests        *int   `json:"guests,omitempty"`
	CustomerName  string `json:"customerName,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	Source        string `json:"source"`
}

// CreateCheckoutRequest is the body of POST /api/checkouts
type CreateCheckoutRequest struct {
	Amount     int64            `json:"amount"`
	Currency   string           `json:"currency"`
	CancelURL  string           `json:"cancelUrl"`
	SuccessURL string           `json:"successUrl"`
	FailureURL string           `json:"failureUrl"`
	Metadata   CheckoutMetadata `json:"metadata"`
}

// Checkout is the subset of the Yoco checkout object the site relies on
type Checkout struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirectUrl"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
}

// latestRatesResponse mirrors the exchangerate.host /latest payload
type latestRatesResponse struct {
	Success *bool              `json:"success,omitempty"`
	Base    string             `json:"base"`
	Rates   map[string]float64 `json:"rates"`
	Error   *struct {
		Code int    `json:"code"`
		Info string `json:"info"`
	} `json:"error,omitempty"`
}
