package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID        string
	FullName  string
	Role      string
	DailyRate decimal.Decimal
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}
