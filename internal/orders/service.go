package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aureusmetals/aureus-backend/internal/audit"
	"github.com/aureusmetals/aureus-backend/internal/catalog"
	"github.com/aureusmetals/aureus-backend/internal/inventory"
	"github.com/aureusmetals/aureus-backend/internal/tasks"
	"github.com/aureusmetals/aureus-backend/pkg/config"
	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	"github.com/aureusmetals/aureus-backend/pkg/enums"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/aureusmetals/aureus-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const orderIDAttempts = 10

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type reservationRunner func(ctx context.Context, tx *gorm.DB, requests []inventory.ReservationRequest) ([]inventory.ReservationResult, error)

// Service exposes order operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, params pagination.Params) ([]models.Order, error)
}

type service struct {
	repo        *Repository
	catalogRepo *catalog.Repository
	tx          txRunner
	tasks       tasks.Service
	audit       audit.Recorder
	lifecycle   config.LifecycleConfig
	reserve     reservationRunner
	now         func() time.Time
}

// NewService builds an order service with the required dependencies.
func NewService(
	repo *Repository,
	catalogRepo *catalog.Repository,
	tx txRunner,
	taskSvc tasks.Service,
	recorder audit.Recorder,
	lifecycle config.LifecycleConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if taskSvc == nil {
		return nil, fmt.Errorf("task service required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{
		repo:        repo,
		catalogRepo: catalogRepo,
		tx:          tx,
		tasks:       taskSvc,
		audit:       recorder,
		lifecycle:   lifecycle,
		reserve:     inventory.Reserve,
		now:         time.Now,
	}, nil
}

// Create executes checkout: the validation pass resolves every variant and
// checks stock before any mutation; the reservation, the order row and the
// first lifecycle task then commit or roll back as one transaction.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.CustomerEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email required")
	}
	if input.ShippingAddress == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order contains no items")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalogRepo.WithTx(tx)
		ordersRepo := s.repo.WithTx(tx)

		type resolvedItem struct {
			variant *models.Variant
			product *models.Product
			qty     int
		}
		resolved := make([]resolvedItem, 0, len(input.Items))

		// Validation pass: every item must resolve and have enough stock
		// before anything mutates.
		for _, item := range input.Items {
			variant, err := catalogRepo.FindVariantByID(ctx, item.VariantID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
			}
			if item.ProductID != uuid.Nil && variant.ProductID != item.ProductID {
				return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
			}
			product, err := catalogRepo.FindByID(ctx, variant.ProductID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			if variant.Stock < item.Quantity {
				return insufficientStock(product.Title, variant.Name, variant.Stock)
			}
			resolved = append(resolved, resolvedItem{variant: variant, product: product, qty: item.Quantity})
		}

		// Mutation pass: guarded decrements, re-checked against the results
		// in case another writer raced the validation read.
		requests := make([]inventory.ReservationRequest, len(resolved))
		for i, item := range resolved {
			requests[i] = inventory.ReservationRequest{VariantID: item.variant.ID, Qty: item.qty}
		}
		results, err := s.reserve(ctx, tx, requests)
		if err != nil {
			return err
		}
		for i, result := range results {
			if !result.Reserved {
				return insufficientStock(resolved[i].product.Title, resolved[i].variant.Name, result.Remaining)
			}
		}

		orderID, err := s.nextOrderID(ctx, ordersRepo)
		if err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(resolved))
		computedTotal := decimal.Zero
		for _, item := range resolved {
			lineTotal := item.variant.Price.Mul(decimal.NewFromInt(int64(item.qty)))
			computedTotal = computedTotal.Add(lineTotal)
			items = append(items, models.OrderItem{
				ID:          uuid.New(),
				OrderID:     orderID,
				ProductID:   item.product.ID,
				VariantID:   item.variant.ID,
				Title:       item.product.Title,
				VariantName: item.variant.Name,
				Price:       item.variant.Price,
				Quantity:    item.qty,
			})
		}
		total := input.Total
		if total.IsZero() {
			total = computedTotal
		}

		order := &models.Order{
			ID:              orderID,
			CustomerEmail:   input.CustomerEmail,
			ShippingAddress: input.ShippingAddress,
			ShippingOption:  input.ShippingOption,
			Total:           total,
			Status:          enums.OrderStatusPending,
			Notes:           input.Notes,
			Items:           items,
		}
		if _, err := ordersRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		// First lifecycle hop; committed with the order so a crash cannot
		// strand a pending order without a scheduled transition.
		_, err = s.tasks.ScheduleTx(ctx, tx, tasks.ScheduleInput{
			Name:         fmt.Sprintf("advance %s", orderID),
			Type:         enums.TaskTypeOrderAdvance,
			TargetID:     orderID,
			ScheduledFor: s.now().Add(s.lifecycle.ProcessingDelay),
		})
		if err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		Type:         enums.AuditTypeOrder,
		Action:       enums.AuditActionCreate,
		Message:      fmt.Sprintf("Order %s created for %s", created.ID, created.CustomerEmail),
		ResourceType: "order",
		ResourceID:   created.ID,
		Details:      map[string]any{"total": created.Total.String(), "items": len(created.Items)},
	})
	return created, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]models.Order, error) {
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}

// nextOrderID derives ORD-<last 6 digits of epoch millis>, bumping the
// suffix until it is free of collisions.
func (s *service) nextOrderID(ctx context.Context, repo *Repository) (string, error) {
	base := s.now().UnixMilli()
	for attempt := int64(0); attempt < orderIDAttempts; attempt++ {
		candidate := fmt.Sprintf("ORD-%06d", (base+attempt)%1_000_000)
		taken, err := repo.IDExists(ctx, candidate)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order id")
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "could not allocate order id")
}

func insufficientStock(title, variantName string, remaining int) error {
	return pkgerrors.Newf(pkgerrors.CodeOutOfStock,
		"Insufficient stock for %s - %s. Only %d left.", title, variantName, remaining)
}
