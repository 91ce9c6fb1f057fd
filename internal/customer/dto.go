package customer

import (
	"time"

	"dokon/internal/domain"
)

type CustomerRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitempty,max=13"`
	Description *string `json:"description,omitempty"`
}

type CustomerDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber *string   `json:"phoneNumber"`
	Description *string   `json:"description"`
	CreatedBy   int64     `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toCustomerDTO(c domain.Customer) CustomerDTO {
	return CustomerDTO{
		ID:          c.ID,
		Name:        c.Name,
		PhoneNumber: c.PhoneNumber,
		Description: c.Description,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
	}
}
