package controllers

import (
	"net/http"
	"time"

	"github.com/aureusmetals/aureus-backend/api/responses"
	"github.com/aureusmetals/aureus-backend/api/validators"
	"github.com/aureusmetals/aureus-backend/internal/tasks"
	"github.com/aureusmetals/aureus-backend/pkg/enums"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
)

type scheduleTaskRequest struct {
	Name         string         `json:"name,omitempty"`
	Type         string         `json:"type" validate:"required"`
	TargetID     string         `json:"target_id" validate:"required"`
	Payload      map[string]any `json:"payload,omitempty"`
	ScheduledFor time.Time      `json:"scheduled_for" validate:"required"`
}

// ListTasks returns scheduled tasks newest first.
func ListTasks(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := paginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ScheduleTask enqueues a price_update or content_swap task. Order
// advancement tasks are created internally by checkout and the lifecycle.
func ScheduleTask(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload scheduleTaskRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		taskType, err := enums.ParseTaskType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid task type"))
			return
		}
		if taskType == enums.TaskTypeOrderAdvance {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order_advance tasks cannot be scheduled directly"))
			return
		}

		task, err := svc.Schedule(r.Context(), tasks.ScheduleInput{
			Name:         payload.Name,
			Type:         taskType,
			TargetID:     payload.TargetID,
			Payload:      payload.Payload,
			ScheduledFor: payload.ScheduledFor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, task)
	}
}
