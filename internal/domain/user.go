package domain

import "time"

type Address struct {
	Street   string `json:"street"`
	Zone     string `json:"zone"`
	City     string `json:"city"`
	Province string `json:"province"`
	ZipCode  string `json:"zipCode"`
}

// User is the simulated account record. The users collection is keyed by
// email; the current user is an independent copy of one record.
type User struct {
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	MiddleName    string    `json:"middleName,omitempty"`
	ContactNumber string    `json:"contactNumber"`
	Address       Address   `json:"address"`
	IsLoggedIn    bool      `json:"isLoggedIn"`
	SignupTime    time.Time `json:"signupTime,omitzero"`
	LoginTime     time.Time `json:"loginTime,omitzero"`
}

// DisplayName is what the navbar shows for a logged-in user.
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return "User"
}
