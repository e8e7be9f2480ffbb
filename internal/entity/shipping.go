package domain

// ShippingAddress collects the checkout shipping form. AddressLine2 is the
// only optional field.
type ShippingAddress struct {
	FullName     string `json:"fullName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	PinCode      string `json:"pinCode" validate:"required"`
}
