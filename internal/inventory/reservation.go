package inventory

import (
	"context"
	"errors"

	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservationRequest asks for qty units of one variant's stock.
type ReservationRequest struct {
	VariantID uuid.UUID
	Qty       int
}

// ReservationResult reports the outcome for one request. Remaining carries
// the stock level observed when a reservation is refused.
type ReservationResult struct {
	VariantID uuid.UUID
	Qty       int
	Reserved  bool
	Remaining int
}

// Reserve decrements stock for each request inside the supplied transaction.
// The UPDATE is guarded by the current stock level, so a concurrent writer can
// never drive a counter negative; a refused request yields Reserved=false with
// the remaining quantity instead of an error, leaving the rollback decision to
// the caller.
func Reserve(ctx context.Context, tx *gorm.DB, requests []ReservationRequest) ([]ReservationResult, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction required")
	}

	results := make([]ReservationResult, 0, len(requests))
	for _, req := range requests {
		if req.VariantID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id required")
		}
		if req.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation quantity must be positive")
		}

		update := tx.WithContext(ctx).
			Model(&models.Variant{}).
			Where("id = ? AND stock >= ?", req.VariantID, req.Qty).
			Update("stock", gorm.Expr("stock - ?", req.Qty))
		if update.Error != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, update.Error, "decrement stock")
		}

		result := ReservationResult{VariantID: req.VariantID, Qty: req.Qty, Reserved: update.RowsAffected > 0}
		if !result.Reserved {
			var variant models.Variant
			err := tx.WithContext(ctx).First(&variant, "id = ?", req.VariantID).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
			case err != nil:
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
			}
			result.Remaining = variant.Stock
		}
		results = append(results, result)
	}
	return results, nil
}

// Release returns previously reserved stock, used when a later step fails
// after a partial reservation has been committed.
func Release(ctx context.Context, tx *gorm.DB, variantID uuid.UUID, qty int) error {
	if qty <= 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Model(&models.Variant{}).
		Where("id = ?", variantID).
		Update("stock", gorm.Expr("stock + ?", qty)).Error
}
