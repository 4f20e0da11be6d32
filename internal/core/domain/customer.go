package domain

// Customer is a party that leases rental items. Same lifecycle as
// BusinessOwner.
type Customer struct {
	ID   Identifier `json:"id"`
	Name string     `json:"name"`
}
