package models

// DealerSession is the wholesale price capability of one browsing session.
// It only toggles price visibility; it is not an authorization boundary.
type DealerSession struct {
	IsDealer bool   `json:"is_dealer"`
	Proof    string `json:"-"`
}
