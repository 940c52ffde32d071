package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/advance"
)

type advanceRepository struct {
	mu       sync.Mutex
	advances map[string]advance.Advance
}

func NewAdvanceRepository() advance.AdvanceRepository {
	return &advanceRepository{advances: make(map[string]advance.Advance)}
}

func (r *advanceRepository) Create(ctx context.Context, adv advance.Advance) (advance.Advance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if adv.ID == "" {
		adv.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	adv.CreatedAt = now
	adv.UpdatedAt = now

	r.advances[adv.ID] = adv
	return adv, nil
}

func (r *advanceRepository) GetByID(ctx context.Context, id string) (advance.Advance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	adv, ok := r.advances[id]
	if !ok {
		return advance.Advance{}, advance.ErrAdvanceNotFound
	}
	return adv, nil
}

func (r *advanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]advance.Advance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []advance.Advance
	for _, adv := range r.advances {
		if adv.EmployeeID == employeeID {
			result = append(result, adv)
		}
	}
	sortAdvances(result)
	return result, nil
}

func (r *advanceRepository) ListByIDs(ctx context.Context, ids []string) ([]advance.Advance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]advance.Advance, 0, len(ids))
	for _, id := range ids {
		if adv, ok := r.advances[id]; ok {
			result = append(result, adv)
		}
	}
	sortAdvances(result)
	return result, nil
}

func (r *advanceRepository) SumPendingByEmployee(ctx context.Context, employeeID string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := decimal.Zero
	for _, adv := range r.advances {
		if adv.EmployeeID == employeeID && adv.Status == advance.StatusPending {
			total = total.Add(adv.Amount)
		}
	}
	return total, nil
}

// ConsumePending flips every pending advance under one lock hold, so a
// concurrent second call observes an empty pending set and consumes nothing.
func (r *advanceRepository) ConsumePending(ctx context.Context, employeeID string, paymentID string) (decimal.Decimal, []string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := decimal.Zero
	var consumed []advance.Advance
	for _, adv := range r.advances {
		if adv.EmployeeID == employeeID && adv.Status == advance.StatusPending {
			consumed = append(consumed, adv)
		}
	}
	sortAdvances(consumed)

	now := time.Now().UTC()
	ids := make([]string, 0, len(consumed))
	for _, adv := range consumed {
		adv.Status = advance.StatusConsumed
		pid := paymentID
		adv.ConsumedByPaymentID = &pid
		adv.UpdatedAt = now
		r.advances[adv.ID] = adv

		total = total.Add(adv.Amount)
		ids = append(ids, adv.ID)
	}

	return total, ids, nil
}

func sortAdvances(advances []advance.Advance) {
	sort.Slice(advances, func(i, j int) bool {
		if !advances[i].IssueDate.Equal(advances[j].IssueDate) {
			return advances[i].IssueDate.Before(advances[j].IssueDate)
		}
		return advances[i].ID < advances[j].ID
	})
}
