package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aureusmetals/aureus-backend/internal/audit"
	"github.com/aureusmetals/aureus-backend/internal/catalog"
	"github.com/aureusmetals/aureus-backend/pkg/enums"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
)

// Result summarizes one import run: the count of applied rows plus one
// error string per rejected line.
type Result struct {
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

// Service applies "SKU, Quantity" stock imports line by line. Bad lines
// are collected, not fatal: every valid line still applies.
type Service struct {
	catalog *catalog.Repository
	audit   audit.Recorder
	logg    *logger.Logger
}

func NewService(catalogRepo *catalog.Repository, recorder audit.Recorder, logg *logger.Logger) (*Service, error) {
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{catalog: catalogRepo, audit: recorder, logg: logg}, nil
}

// ImportCSV parses the raw payload and updates variant stock per line.
func (s *Service) ImportCSV(ctx context.Context, payload string) (*Result, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv payload is empty")
	}

	result := &Result{Errors: []string{}}
	for i, raw := range strings.Split(payload, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: expected \"SKU, Quantity\"", lineNo))
			continue
		}
		sku := strings.TrimSpace(parts[0])
		qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || qty < 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: invalid quantity %q", lineNo, strings.TrimSpace(parts[1])))
			continue
		}

		updated, err := s.catalog.SetVariantStock(ctx, sku, qty)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update variant stock")
		}
		if !updated {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: SKU %s not found", lineNo, sku))
			continue
		}
		result.Updated++
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"updated": result.Updated,
		"errors":  len(result.Errors),
	}), "inventory import finished")
	s.audit.Record(ctx, audit.Entry{
		Type:    enums.AuditTypeStock,
		Action:  enums.AuditActionImport,
		Message: fmt.Sprintf("Inventory import: %d updated, %d errors", result.Updated, len(result.Errors)),
		Details: map[string]any{"updated": result.Updated, "errors": result.Errors},
	})
	return result, nil
}
