package api

// Money values travel as decimal strings with two fraction digits, e.g.
// "300.00". Timestamps are Unix seconds.

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type Beneficiary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// MonthlyStipend is empty when no stipend is set.
	MonthlyStipend string `json:"monthly_stipend,omitempty"`
	IsAdmin        bool   `json:"is_admin"`
	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`
}

type Product struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Unit      string `json:"unit,omitempty"`
	Available bool   `json:"available"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type ListEntry struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

// PurchaseList carries a list with its derived amounts. Entries is omitted
// in overviews, where EntryCount is set instead.
type PurchaseList struct {
	ID            string       `json:"id"`
	BeneficiaryID string       `json:"beneficiary_id"`
	Status        string       `json:"status"`
	Ceiling       string       `json:"ceiling"`
	Total         string       `json:"total"`
	Headroom      string       `json:"headroom"`
	EntryCount    int          `json:"entry_count"`
	Entries       []*ListEntry `json:"entries,omitempty"`
	CreatedAt     int64        `json:"created_at"`
	UpdatedAt     int64        `json:"updated_at"`
}
