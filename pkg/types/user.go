package types

// User is a directory entry as returned by the admin users listing.
type User struct {
	UserID         string `json:"user_id"`
	GoogleID       string `json:"google_id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
	IsAdmin        bool   `json:"is_admin"`
	IsActive       bool   `json:"is_active"`
	CreatedAt      string `json:"created_at"`
	LastLogin      string `json:"last_login"`
}

// Location is a pickup point managed by administrators. Items reference
// a location by name, not by id.
type Location struct {
	LocationID  string `json:"location_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
