package models

// Account is a bank account with its current balance.
type Account struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"user_id"`
	Balance   float64 `json:"balance"`
	Currency  string  `json:"currency"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// AccountOwner joins an account with the contact details of its owner.
// Used by the overdraft sweep to address notifications.
type AccountOwner struct {
	Account
	Username string `json:"username"`
	Email    string `json:"email"`
}
