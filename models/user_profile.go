package models

// UserProfile is the identity delivered by the auth collaborator after a
// successful sign-in.
type UserProfile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}
