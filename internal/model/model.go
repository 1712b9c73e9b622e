package model

// User is one account record as the remote API returns it. The API
// ships the stored password in the clear and leaves the credential
// check to the client; see service.Session.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Expense is one expense record. Amount travels as a numeric string so
// it never passes through floats in transit. Timestamps are RFC3339
// strings, the format the API uses on the wire.
type Expense struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"createdAt"`
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	UserID      string `json:"userId,omitempty"`
	Category    string `json:"category,omitempty"`
	Date        string `json:"date,omitempty"`
	Title       string `json:"title,omitempty"`
	Note        string `json:"note,omitempty"`
}

// ExpenseDraft is the client-supplied part of a new expense. The server
// assigns ID and the client stamps CreatedAt and UserID at call time.
type ExpenseDraft struct {
	Name        string `json:"name" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category,omitempty"`
	Date        string `json:"date,omitempty"`
	Title       string `json:"title,omitempty"`
	Note        string `json:"note,omitempty"`
}
