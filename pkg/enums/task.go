package enums

import "fmt"

// TaskType identifies what a scheduled task mutates when executed.
type TaskType string

const (
	TaskTypePriceUpdate  TaskType = "price_update"
	TaskTypeContentSwap  TaskType = "content_swap"
	TaskTypeOrderAdvance TaskType = "order_advance"
)

var validTaskTypes = []TaskType{
	TaskTypePriceUpdate,
	TaskTypeContentSwap,
	TaskTypeOrderAdvance,
}

func (t TaskType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TaskType.
func (t TaskType) IsValid() bool {
	for _, candidate := range validTaskTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTaskType converts raw input into a TaskType.
func ParseTaskType(value string) (TaskType, error) {
	for _, candidate := range validTaskTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid task type %q", value)
}

// TaskStatus tracks scheduled task execution state.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

var validTaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusCompleted,
	TaskStatusFailed,
}

// IsValid reports whether the value is a known TaskStatus.
func (t TaskStatus) IsValid() bool {
	for _, candidate := range validTaskStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}
