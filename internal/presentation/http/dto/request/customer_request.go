package request

// CreateCustomerRequest registers a customer
type CreateCustomerRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Document *string `json:"document"`
}
