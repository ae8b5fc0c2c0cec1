package types

// TokenInfo is the identity carried by a verified bearer token.
type TokenInfo struct {
	Subject string `json:"sub"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
}
