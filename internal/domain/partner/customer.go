package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/sealshop/backend/internal/domain/shared"
)

// Customer is a buyer on record. Name and phone are both unique within a
// tenant; a duplicate of either is a conflict at registration.
type Customer struct {
	shared.TenantAggregateRoot
	Name    string `gorm:"type:varchar(255);not null;index"`
	Phone   string `gorm:"type:varchar(32);index"`
	Address string `gorm:"type:varchar(500)"`
}

func (Customer) TableName() string { return "customers" }

// NewCustomer creates a customer.
func NewCustomer(tenantID uuid.UUID, name, phone, address string) (*Customer, error) {
	if name == "" {
		return nil, shared.NewDomainError("MISSING_NAME", "customer name is required")
	}
	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Phone:               phone,
		Address:             address,
	}, nil
}

// Update changes the contact details.
func (c *Customer) Update(name, phone, address string) error {
	if name == "" {
		return shared.NewDomainError("MISSING_NAME", "customer name is required")
	}
	c.Name = name
	c.Phone = phone
	c.Address = address
	c.UpdatedAt = time.Now().UTC()
	return nil
}
