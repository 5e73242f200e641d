package services

import "storefront/internal/models"

// PriceHiddenLabel replaces an amount the session may not see.
const PriceHiddenLabel = "Login for pricing"

// CanSeePrice reports whether wholesale prices are shown to the session.
// It gates presentation only; totals are always computed.
func CanSeePrice(session models.DealerSession) bool {
	return session.IsDealer
}

// VisiblePrice returns the amount when the session may see it, nil otherwise.
func VisiblePrice(session models.DealerSession, amount int) *int {
	if !CanSeePrice(session) {
		return nil
	}
	return &amount
}

func dealerSession(proof string) models.DealerSession {
	return models.DealerSession{IsDealer: true, Proof: proof}
}

func noDealer() models.DealerSession {
	return models.DealerSession{}
}
