package orders

import "time"

type Actor struct {
	UserID string
	Role   string
}

const RoleAdmin = "admin"

func (a Actor) IsStaff() bool { return a.Role == RoleAdmin }

type Order struct {
	ID              string        `json:"id"`
	CustomerID      string        `json:"customer_id"`
	TotalPrice      int           `json:"total_price"` // subtotal item, tanpa ongkir
	Postage         int           `json:"postage"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	DeliveryAddress string        `json:"delivery_address"`
	Status          Status        `json:"order_status"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

type OrderItem struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	CoffeeID string `json:"coffee_id"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"` // snapshot harga saat order dibuat
}

// AdminOrder adalah row untuk dashboard staff: order + data join
// (nama customer, proof terakhir, items). Schema hasil query dibuat
// eksplisit di repo, bukan cast bebas.
type AdminOrder struct {
	Order
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone,omitempty"`
	ProofPath     string      `json:"proof_path,omitempty"`
	Items         []ItemBrief `json:"items"`
}

type ItemBrief struct {
	CoffeeName string `json:"coffee_name"`
	Quantity   int    `json:"quantity"`
	Price      int    `json:"price"`
}

// OrderUpdate dikirim ke subscriber realtime setelah mutasi ter-commit.
type OrderUpdate struct {
	OrderID         string    `json:"order_id"`
	Status          Status    `json:"order_status"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}
