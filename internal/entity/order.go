package domain

// Order status values as the backend reports them. Transitions are driven by
// admin action; the storefront only ever creates pending orders and reads the
// rest.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// ShippingFlatFee is charged on every order regardless of size.
const ShippingFlatFee = 50.0

// OrderItem is a cart line enriched with product details, as denormalized
// into the order by the backend at creation time.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

// Order is owned by the backend once created; the storefront only displays it.
type Order struct {
	OrderID          string          `json:"orderId"`
	UserID           string          `json:"userId"`
	Items            []OrderItem     `json:"items"`
	Subtotal         float64         `json:"subtotal"`
	Shipping         float64         `json:"shipping"`
	Total            float64         `json:"total"`
	Status           string          `json:"status"`
	ShippingAddress  ShippingAddress `json:"shippingAddress"`
	PaymentMethod    string          `json:"paymentMethod"`
	UPITransactionID string          `json:"upiTransactionId,omitempty"`
	OrderDate        string          `json:"orderDate"`
	ExpectedDelivery string          `json:"expectedDelivery"`
}

// OrderDraft is what the storefront submits to POST /orders after a
// successful payment.
type OrderDraft struct {
	Items           []CartLine      `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Subtotal        float64         `json:"subtotal"`
	Shipping        float64         `json:"shipping"`
	Total           float64         `json:"total"`
	PaymentMethod   string          `json:"paymentMethod"`
	UPIID           string          `json:"upiId,omitempty"`
}
