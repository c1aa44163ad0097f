package db

import (
	"context"
	"fmt"

	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
)

// AutoMigrate creates or updates the schema for every model the service owns.
func (c *Client) AutoMigrate(ctx context.Context, logg *logger.Logger) error {
	err := c.conn.WithContext(ctx).AutoMigrate(
		&models.Product{},
		&models.Variant{},
		&models.Order{},
		&models.OrderItem{},
		&models.AuditLog{},
		&models.ScheduledTask{},
		&models.CmsSection{},
	)
	if err != nil {
		return fmt.Errorf("running auto-migration: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "schema migration complete")
	}
	return nil
}
