package models

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateOrderRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency,omitempty"`
}

type VerifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
