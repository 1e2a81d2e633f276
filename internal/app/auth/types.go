package auth

import "time"

type LoginInput struct {
	Phone    string
	Password string
}

type LoginResponse struct {
	Token     string    `json:"token"`
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expiresAt"`
}
