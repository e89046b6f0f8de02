package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smugflex-sys/Final-sub000/app/models"
)

func payment(amount float64, status models.PaymentStatus) models.Payment {
	return models.Payment{Amount: amount, Status: status}
}

func TestComputeBalance(t *testing.T) {
	tests := []struct {
		name     string
		required float64
		payments []models.Payment
		want     Balance
	}{
		{
			name:     "verified payments reduce the balance",
			required: 200000,
			payments: []models.Payment{payment(70000, models.PaymentVerified), payment(50000, models.PaymentVerified)},
			want:     Balance{Required: 200000, Paid: 120000, Balance: 80000, Status: BalancePartial},
		},
		{
			name:     "pending payments do not",
			required: 200000,
			payments: []models.Payment{payment(120000, models.PaymentVerified), payment(50000, models.PaymentPending)},
			want:     Balance{Required: 200000, Paid: 120000, Pending: 50000, Balance: 80000, Status: BalancePartial},
		},
		{
			name:     "nothing paid",
			required: 150000,
			want:     Balance{Required: 150000, Balance: 150000, Status: BalanceOutstanding},
		},
		{
			name:     "fully paid",
			required: 100000,
			payments: []models.Payment{payment(100000, models.PaymentVerified)},
			want:     Balance{Required: 100000, Paid: 100000, Status: BalancePaid},
		},
		{
			name:     "overpaid is clamped",
			required: 100000,
			payments: []models.Payment{payment(130000, models.PaymentVerified)},
			want:     Balance{Required: 100000, Paid: 130000, Overpayment: 30000, Status: BalanceOverpaid},
		},
		{
			name: "no fee required",
			want: Balance{Status: BalancePaid},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeBalance(tt.required, tt.payments))
		})
	}
}

func TestRequiredFee(t *testing.T) {
	structures := []models.FeeStructure{{Amount: 150000}, {Amount: 50000}}
	assert.Equal(t, 200000.0, RequiredFee(structures, nil))
	assert.Equal(t, 150000.0, RequiredFee(structures, []models.Scholarship{{Amount: 50000}}))
	assert.Equal(t, 0.0, RequiredFee(structures, []models.Scholarship{{Amount: 250000}}))
	assert.Equal(t, 0.0, RequiredFee(nil, nil))
}

func TestInitialPaymentStatus(t *testing.T) {
	assert.Equal(t, models.PaymentVerified, InitialPaymentStatus(models.MethodCash))
	for _, m := range []models.PaymentMethod{models.MethodBankTransfer, models.MethodPOS, models.MethodOnline, models.MethodCheque} {
		assert.Equal(t, models.PaymentPending, InitialPaymentStatus(m), m)
	}
}

func TestCheckPaymentAmount(t *testing.T) {
	current := ComputeBalance(200000, []models.Payment{payment(120000, models.PaymentVerified)})

	assert.NoError(t, CheckPaymentAmount(80000, current))
	assert.NoError(t, CheckPaymentAmount(1, current))
	assert.ErrorIs(t, CheckPaymentAmount(80000.01, current), ErrOverpayment)
	assert.ErrorIs(t, CheckPaymentAmount(0, current), ErrInvalidAmount)
	assert.ErrorIs(t, CheckPaymentAmount(-5, current), ErrInvalidAmount)
}

func TestVerifyPayment(t *testing.T) {
	at := time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)
	p := models.Payment{Amount: 50000, Method: models.MethodBankTransfer, Status: models.PaymentPending}

	before := ComputeBalance(200000, []models.Payment{p})
	assert.Equal(t, 200000.0, before.Balance)

	require.NoError(t, VerifyPayment(&p, 7, at))
	assert.Equal(t, models.PaymentVerified, p.Status)
	require.NotNil(t, p.VerifiedBy)
	assert.Equal(t, int64(7), *p.VerifiedBy)
	assert.Equal(t, at, *p.VerifiedAt)

	after := ComputeBalance(200000, []models.Payment{p})
	assert.Equal(t, 150000.0, after.Balance)

	assert.ErrorIs(t, VerifyPayment(&p, 7, at), ErrAlreadyVerified)
}

func TestComputeBalanceIsIdempotent(t *testing.T) {
	payments := []models.Payment{payment(20000, models.PaymentVerified), payment(5000, models.PaymentPending)}
	assert.Equal(t, ComputeBalance(90000, payments), ComputeBalance(90000, payments))
}
