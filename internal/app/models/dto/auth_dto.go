package dto

// LoginRequest carries the credentials for any account type. Identifier is a
// university ID for students or a username for staff.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required,min=3,max=50" example:"202110023"`
	Password   string `json:"password" binding:"required,min=6" example:"s3cret!"`
}

// LoginResponse returns the session token and where the client should land.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn" example:"43200"` // seconds
	Role      string `json:"role" example:"student"`
	UserID    int64  `json:"userId" example:"5"`
	FullName  string `json:"fullName,omitempty" example:"John Doe"`
}

// ForgotPasswordRequest asks for a reset email.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email" example:"user@school.edu"`
}

// ResetPasswordRequest redeems a reset token.
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}
