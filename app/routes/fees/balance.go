package fees

import (
	"context"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/services"
)

// RequiredFor sums the fee structures of the student's class for the term
// less the student's scholarships.
func RequiredFor(ctx context.Context, store *database.Store, student models.Student, term models.Term, session string) (float64, error) {
	var structures []models.FeeStructure
	if student.ClassID != nil {
		var err error
		structures, err = database.All(ctx, store.FeeStructures, database.Filter{
			"class_id": *student.ClassID,
			"term":     term,
			"session":  session,
		})
		if err != nil {
			return 0, err
		}
	}
	scholarships, err := database.All(ctx, store.Scholarships, database.Filter{
		"student_id": student.ID,
		"term":       term,
		"session":    session,
	})
	if err != nil {
		return 0, err
	}
	return services.RequiredFee(structures, scholarships), nil
}

// StudentBalance returns the student's balance for the term and the payments it was computed from.
func StudentBalance(ctx context.Context, store *database.Store, student models.Student, term models.Term, session string) (services.Balance, []models.Payment, error) {
	required, err := RequiredFor(ctx, store, student, term, session)
	if err != nil {
		return services.Balance{}, nil, err
	}
	payments, err := database.All(ctx, store.Payments, database.Filter{
		"student_id": student.ID,
		"term":       term,
		"session":    session,
	})
	if err != nil {
		return services.Balance{}, nil, err
	}
	return services.ComputeBalance(required, payments), payments, nil
}
