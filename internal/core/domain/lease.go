package domain

// Lease links one business owner, one customer, and one rental item for a
// time range. References are ids only; the lease never owns the records it
// points at. StartTime is captured at creation, EndTime is caller-supplied
// text.
type Lease struct {
	ID            Identifier `json:"id"`
	BusinessOwner Identifier `json:"businessOwner"`
	Customer      Identifier `json:"customer"`
	RentalItem    Identifier `json:"rentalItem"`
	NumberOfItem  uint64     `json:"numberOfItem"`
	StartTime     string     `json:"startTime"`
	EndTime       string     `json:"endTime"`
}
