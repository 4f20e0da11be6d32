package domain

// RentalItem describes leaseable stock. Quantity is the only field ever
// mutated after creation, and only by lease creation.
type RentalItem struct {
	ID       Identifier `json:"id"`
	Items    string     `json:"items"`
	Quantity uint64     `json:"quantity"`
}
