package domain

// Denial reasons carried in EntitlementResult.Reason. Machine-matchable; the
// frontend switches its paywall copy on these.
const (
	ReasonNoCredits        = "no_credits"
	ReasonNotSubscribed    = "not_subscribed"
	ReasonAccountSuspended = "account_suspended"
)

// EntitlementResult is the gate's verdict for a single feature invocation.
// It is computed fresh per request against current store state and never
// cached, since credits can be consumed concurrently across parallel requests.
// Wire format is snake_case: this struct is embedded verbatim in feature
// endpoint responses.
type EntitlementResult struct {
	Allowed          bool   `json:"allowed"`
	Reason           string `json:"reason,omitempty"` // set iff Allowed is false
	IsPro            bool   `json:"is_pro"`
	RemainingCredits int    `json:"remaining_credits"`
	UpgradeURL       string `json:"upgrade_url,omitempty"`

	// Debited reports whether this verdict consumed a credit. Endpoints use
	// it to decide on a refund when the provider fails afterwards. Not part
	// of the wire format.
	Debited bool `json:"-"`
}
