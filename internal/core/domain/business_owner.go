package domain

// BusinessOwner is a party that offers rental items. Created once, never
// mutated or deleted.
type BusinessOwner struct {
	ID   Identifier `json:"id"`
	Name string     `json:"name"`
}
