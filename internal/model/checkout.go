package model

import "time"

// Checkout is a request to borrow an asset and its approval history.
type Checkout struct {
	ID           int64      `json:"id"`
	AssetID      int64      `json:"asset_id"`
	BorrowerID   int64      `json:"borrower_id"`
	CheckoutDate time.Time  `json:"checkout_date"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	Status       string     `json:"status"`
	ApprovedBy   *int64     `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`

	// Joined fields (not always populated).
	AssetTag     string `json:"asset_tag,omitempty"`
	AssetName    string `json:"asset_name,omitempty"`
	BorrowerName string `json:"borrower_name,omitempty"`
}

// Checkout statuses.
const (
	CheckoutRequested = "requested"
	CheckoutApproved  = "approved"
	CheckoutReturned  = "returned"
	CheckoutRejected  = "rejected"
)

// checkoutTransitions lists the statuses reachable from each status.
// Returned and rejected are terminal.
var checkoutTransitions = map[string][]string{
	CheckoutRequested: {CheckoutApproved, CheckoutRejected},
	CheckoutApproved:  {CheckoutReturned},
}

// CheckoutCanTransition reports whether a checkout may move from one status to another.
func CheckoutCanTransition(from, to string) bool {
	for _, s := range checkoutTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckoutTerminal reports whether no transition leaves status.
func CheckoutTerminal(status string) bool {
	return status == CheckoutReturned || status == CheckoutRejected
}

// ActiveCheckoutStatuses are the statuses in which a checkout still holds
// its asset. An asset has at most one checkout in these statuses.
var ActiveCheckoutStatuses = []string{CheckoutRequested, CheckoutApproved}
