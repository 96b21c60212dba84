package user

import "time"

// User is an account that owns applications. PasswordHash is a bcrypt hash;
// the clear text never leaves the users service.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"display_name"`
	PasswordHash   []byte    `json:"-"`
	CreatedUTC     time.Time `json:"created_utc"`
	UpdatedUTC     time.Time `json:"updated_utc"`
	DeactivatedUTC time.Time `json:"deactivated_utc,omitempty"`
}

// Active reports whether the user participates in aggregation and can log in.
func (u User) Active() bool {
	return u.DeactivatedUTC.IsZero()
}
