package types

// LoginResult is returned by both the Google and the admin login
// endpoints. An empty AccessToken means the login was refused.
type LoginResult struct {
	AccessToken string     `json:"access_token"`
	User        *LoginUser `json:"user"`
}

// LoginUser is the identity snapshot embedded in a login response.
type LoginUser struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
	IsAdmin        bool   `json:"is_admin"`
	IsActive       bool   `json:"is_active"`
}

// OperationResult is the success-shaped envelope several admin
// endpoints answer with. Error carries the backend detail on refusal.
type OperationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// SetupCheck reports whether first-time admin setup is still pending.
type SetupCheck struct {
	FirstTimeSetup bool   `json:"first_time_setup"`
	Message        string `json:"message"`
}

// TermsContent holds the terms-of-service document text.
type TermsContent struct {
	Content string `json:"content"`
}

// UnreadCount wraps the derived unread-notification aggregate.
type UnreadCount struct {
	UnreadCount int `json:"unread_count"`
}

// MessageResult acknowledges a mutation with a human-readable message.
type MessageResult struct {
	Message   string `json:"message"`
	MessageID string `json:"message_id,omitempty"`
}

// LocationCreateResult acknowledges a location insert.
type LocationCreateResult struct {
	LocationID string `json:"location_id"`
	Message    string `json:"message"`
}

// Recommendations is the AI corner response.
type Recommendations struct {
	Success         bool   `json:"success"`
	Recommendations string `json:"recommendations"`
	Error           string `json:"error"`
}
