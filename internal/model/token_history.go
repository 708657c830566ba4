package model

import "time"

// Activity labels recorded in the token history. Reset-code lookups filter on
// these exact values, so they must stay stable.
const (
	ActivityRegisterTokenCreated = "registration-token-created"
	ActivityLoginTokenCreated    = "login-token-created"
	ActivityLoginTokenRetrieved  = "login-token-retrieved"
	ActivityResetCodeRequested   = "reset-code-requested"
	ActivityResetCodeUsed        = "reset-code-used"
	ActivityResetCompleted       = "reset-completed"
	ActivityAccessVerified       = "access-verified"
	ActivityLogout               = "logout"
)

// TokenHistory is an append-only record of a token or reset-code event.
// Records are never deleted; the only permitted mutation is flipping a pending
// reset code to its used state.
type TokenHistory struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Activity  string    `json:"activity"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateTokenHistoryRequest is used by the admin endpoint to append a record manually
type CreateTokenHistoryRequest struct {
	UserID   int    `json:"user_id" binding:"required,gt=0"`
	Activity string `json:"activity" binding:"required,max=100"`
	Token    string `json:"token" binding:"required"`
}
