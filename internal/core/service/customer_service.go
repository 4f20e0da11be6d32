package service

import (
	"context"
	"fmt"

	"github.com/rl1809/rental-ledger/internal/core/domain"
	"github.com/rl1809/rental-ledger/internal/port"
)

type CustomerService struct {
	customers port.Store[domain.Customer]
}

func NewCustomerService(customers port.Store[domain.Customer]) *CustomerService {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) Create(ctx context.Context, name string) (domain.Customer, error) {
	customer := domain.Customer{
		ID:   domain.NewIdentifier(),
		Name: name,
	}

	if _, err := s.customers.Insert(ctx, customer.ID, customer); err != nil {
		return domain.Customer{}, fmt.Errorf("insert customer: %w", err)
	}

	return customer, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id domain.Identifier) (*domain.Customer, error) {
	return s.customers.Get(ctx, id)
}
