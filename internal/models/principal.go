package models

// Principal is the authenticated identity owning a set of wallets under the
// remote backend. Absent under the local backend.
type Principal struct {
	ID string `json:"id"`
}
