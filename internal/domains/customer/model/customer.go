package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer là partial view của user record do user service quản lý.
// Promotion engine chỉ cần identity + group membership để check eligibility.
type Customer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name" db:"full_name"`
	Groups    []string  `json:"groups" db:"groups"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// InGroup checks group membership
func (c *Customer) InGroup(name string) bool {
	for _, g := range c.Groups {
		if g == name {
			return true
		}
	}
	return false
}
