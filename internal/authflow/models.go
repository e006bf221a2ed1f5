package authflow

// DeviceAuthorization is the transient state of one login attempt. It is
// never persisted; the caller holds it in memory across the polling loop.
type DeviceAuthorization struct {
	UserCode        string `json:"user_code"`
	DeviceCode      string `json:"device_code"`
	VerificationURL string `json:"verification_url"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
	Message         string `json:"message"`
}

// PollStatus discriminates the outcome of a single token poll.
type PollStatus string

const (
	// PollPending means the user has not completed the sign-in yet; the
	// caller should poll again after the advertised interval.
	PollPending PollStatus = "pending"

	// PollSuccess means a token was obtained and persisted.
	PollSuccess PollStatus = "success"

	// PollExpired means the device code lapsed; the caller must restart the
	// flow with a fresh Initiate.
	PollExpired PollStatus = "expired"

	// PollError is any other upstream failure. Nothing was persisted.
	PollError PollStatus = "error"
)

// PollResult is returned for every PollOnce call. Pending and Expired are
// expected states, not errors; the caller owns the repeat-until-terminal
// loop, typically driven by a browser timer.
type PollResult struct {
	Status PollStatus `json:"status"`
	Err    string     `json:"error,omitempty"`
}
