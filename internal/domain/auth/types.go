package auth

import "time"

// Config drives authentication behavior.
type Config struct {
	Secret           string
	TokenTTL         time.Duration
	RefreshTokenTTL  time.Duration
	SeedDemoAccounts bool
}

// User represents a persisted farmer account.
type User struct {
	ID           int64     `json:"id"`
	FarmerName   string    `json:"farmerName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RegisterRequest captures the sign-up payload.
type RegisterRequest struct {
	FarmerName      string `json:"farmerName"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest captures login details.
type LoginRequest struct {
	FarmerName string `json:"farmerName"`
	Password   string `json:"password"`
}

// LoginResponse returns the signed tokens.
type LoginResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	User         UserView `json:"user"`
}

// UserView trims sensitive fields.
type UserView struct {
	ID         int64     `json:"id"`
	FarmerName string    `json:"farmerName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Claims are extracted from the JWT token.
type Claims struct {
	UserID     int64
	FarmerName string
	TokenType  string
	ExpiresAt  time.Time
}

// RefreshRequest encapsulates refresh token payload.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// DemoAccount is a sample login seeded for demos.
type DemoAccount struct {
	FarmerName string
	Password   string
}

// DemoAccounts are the sample farmers available out of the box.
var DemoAccounts = []DemoAccount{
	{FarmerName: "Rakesh Kumar", Password: "TestPass@123"},
	{FarmerName: "farmer_anu", Password: "TestPass@123"},
	{FarmerName: "farmer_lee", Password: "TestPass@123"},
	{FarmerName: "farmer_maya", Password: "TestPass@123"},
	{FarmerName: "farmer_john", Password: "TestPass@123"},
}
