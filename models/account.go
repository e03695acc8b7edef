package models

// Account is a trading account attached to a wallet, passed through mostly
// raw from the venue.
type Account struct {
	ID     string
	Name   string
	Status string
	Info   map[string]interface{}
}
