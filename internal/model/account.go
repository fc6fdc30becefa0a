package model

import "time"

// Account is a container transactions belong to (checking account,
// wallet, credit card).
type Account struct {
	CreatedAt time.Time
	ID        string
	UserID    string
	Name      string
}
