package types

// User is the signed-in dashboard user.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Verified  bool   `json:"verified"`
}

// Sender is a business profile payments are sent on behalf of.
type Sender struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"businessName"`
	Country      string    `json:"country"`
	Status       StatusKey `json:"status"`
	RegNumber    string    `json:"registrationNumber,omitempty"`
	CreatedAt    string    `json:"createdAt,omitempty"`
}

// Wallet is one currency balance.
type Wallet struct {
	ID       string `json:"id"`
	Currency string `json:"currency"`
	Balance  string `json:"balance"`
	Ledger   string `json:"ledgerBalance,omitempty"`
}

// SendersPage is one cached page of a sender list tab.
type SendersPage struct {
	Status     StatusKey `json:"status"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	Total      int       `json:"total"`
	TotalPages int       `json:"totalPages"`
	Items      []Sender  `json:"items"`
}

// LoginRequest is posted to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the decrypted login payload.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SendersQuery selects one page of a sender list tab.
type SendersQuery struct {
	Status StatusKey
	Page   int
	Limit  int
}
