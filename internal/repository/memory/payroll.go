package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/payroll"
)

type paymentRepository struct {
	mu       sync.RWMutex
	payments map[string]payroll.SalaryPayment
}

func NewPaymentRepository() payroll.PaymentRepository {
	return &paymentRepository{payments: make(map[string]payroll.SalaryPayment)}
}

func (r *paymentRepository) CreatePayment(ctx context.Context, payment payroll.SalaryPayment) (payroll.SalaryPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	payment.CreatedAt = time.Now().UTC()
	payment.AttendanceIDs = append([]string(nil), payment.AttendanceIDs...)
	payment.AdvanceIDs = append([]string(nil), payment.AdvanceIDs...)

	r.payments[payment.ID] = payment
	return payment, nil
}

func (r *paymentRepository) GetPaymentByID(ctx context.Context, id string) (payroll.SalaryPayment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.payments[id]
	if !ok {
		return payroll.SalaryPayment{}, payroll.ErrPaymentNotFound
	}
	return payment, nil
}

func (r *paymentRepository) ListPaymentsByEmployee(ctx context.Context, employeeID string) ([]payroll.SalaryPayment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []payroll.SalaryPayment
	for _, payment := range r.payments {
		if payment.EmployeeID == employeeID {
			result = append(result, payment)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}
