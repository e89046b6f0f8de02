package services

import (
	"time"

	"github.com/pkg/errors"

	"github.com/smugflex-sys/Final-sub000/app/models"
)

var (
	ErrAlreadyVerified = errors.New("payment is already verified")
	ErrOverpayment     = errors.New("payment exceeds the outstanding balance")
	ErrInvalidAmount   = errors.New("payment amount must be greater than zero")
)

// Balance labels
const (
	BalanceOutstanding = "Outstanding"
	BalancePartial     = "Partial"
	BalancePaid        = "Paid"
	BalanceOverpaid    = "Overpaid"
)

// Balance is what a student owes for one term.
type Balance struct {
	Required    float64 `json:"required"`
	Paid        float64 `json:"paid"`
	Pending     float64 `json:"pending"`
	Balance     float64 `json:"balance"`
	Overpayment float64 `json:"overpayment"`
	Status      string  `json:"status"`
}

// ComputeBalance subtracts verified payments from the required fee. Pending
// payments are reported but never reduce the balance. The balance does not go
// below zero; any excess is returned as Overpayment.
func ComputeBalance(required float64, payments []models.Payment) Balance {
	b := Balance{Required: round2(required)}
	for _, p := range payments {
		if p.IsVerified() {
			b.Paid += p.Amount
		} else {
			b.Pending += p.Amount
		}
	}
	b.Paid = round2(b.Paid)
	b.Pending = round2(b.Pending)

	diff := round2(b.Required - b.Paid)
	switch {
	case diff < 0:
		b.Overpayment = -diff
		b.Status = BalanceOverpaid
	case diff == 0:
		b.Status = BalancePaid
	case b.Paid > 0:
		b.Balance = diff
		b.Status = BalancePartial
	default:
		b.Balance = diff
		b.Status = BalanceOutstanding
	}
	return b
}

// RequiredFee sums the fee structures and subtracts scholarships, never going below zero.
func RequiredFee(structures []models.FeeStructure, scholarships []models.Scholarship) float64 {
	total := 0.0
	for _, fs := range structures {
		total += fs.Amount
	}
	for _, s := range scholarships {
		total -= s.Amount
	}
	if total < 0 {
		return 0
	}
	return round2(total)
}

// InitialPaymentStatus is Verified for cash handed over at the bursary and
// Pending for every other method until an accountant confirms it.
func InitialPaymentStatus(method models.PaymentMethod) models.PaymentStatus {
	if method == models.MethodCash {
		return models.PaymentVerified
	}
	return models.PaymentPending
}

// CheckPaymentAmount rejects amounts that are not positive or exceed the balance.
func CheckPaymentAmount(amount float64, current Balance) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if round2(amount) > current.Balance {
		return errors.Wrapf(ErrOverpayment, "outstanding balance is %.2f", current.Balance)
	}
	return nil
}

// VerifyPayment moves a pending payment to Verified.
func VerifyPayment(p *models.Payment, verifier int64, at time.Time) error {
	if p.Status != models.PaymentPending {
		return ErrAlreadyVerified
	}
	p.Status = models.PaymentVerified
	p.VerifiedBy = &verifier
	p.VerifiedAt = &at
	return nil
}
