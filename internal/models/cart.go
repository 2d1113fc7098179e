package models

// Cart is the client-held cart: product ID -> requested quantity. It has no
// server-side identity; it is validated fresh at placement time and then
// discarded.
type Cart map[string]int

// Empty reports whether the cart has no lines.
func (c Cart) Empty() bool {
	return len(c) == 0
}

// ContactDetails are the checkout contact fields. All of them are required
// for an order to be placed.
type ContactDetails struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,max=20"`
	Address  string `json:"address" validate:"required"`
}
