// Package session holds a shopper's cart between requests and drives the
// browse, checkout and tracking steps.
package session

import "github.com/Mokereri/hotel-kitchen-api/models"

type State string

const (
	StateBrowsing             State = "browsing"
	StateCheckoutInitiated    State = "checkout_initiated"
	StateAwaitingConfirmation State = "awaiting_confirmation"
)

// Session is the per-shopper context every flow operation receives.
type Session struct {
	ID              string                  `json:"id"`
	UserEmail       string                  `json:"userEmail"`
	Cart            Cart                    `json:"cart"`
	Personalization *models.Personalization `json:"personalization,omitempty"`
	State           State                   `json:"state"`
	LastOrderID     string                  `json:"lastOrderId,omitempty"`
}

func New(id, userEmail string) *Session {
	return &Session{ID: id, UserEmail: userEmail, State: StateBrowsing}
}
