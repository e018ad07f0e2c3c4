package request

// CreateGuestRequest is the request body for creating a guest session
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	DisplayName string `json:"display_name,omitempty"`
}

// JoinRoomRequest is the request body for joining a room
type JoinRoomRequest struct {
	DisplayName string `json:"display_name,omitempty"`
}

// ReconnectRequest is the request body for reconnecting to a room
type ReconnectRequest struct {
	DisplayName string `json:"display_name,omitempty"`
}

// ReadyRequest is the request body for setting the ready flag
type ReadyRequest struct {
	Ready bool `json:"ready"`
}

// SubmittedWord is one word within a round submission
type SubmittedWord struct {
	Word      string `json:"word"`
	Points    int    `json:"points"`
	IsPangram bool   `json:"is_pangram"`
}

// SubmitRequest is the request body for submitting a round result
type SubmitRequest struct {
	Words      []SubmittedWord `json:"words"`
	TotalScore int             `json:"total_score"`
}
