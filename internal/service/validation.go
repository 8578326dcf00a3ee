package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/gurkanbulca/taskapi/internal/models"
)

// DueDateLayout is the accepted textual form of due dates (DD/MM/YYYY).
// Day and month may omit their leading zero.
const DueDateLayout = "2/1/2006"

// Args holds the raw request arguments that were present in the request.
// A key is absent when the caller did not send it.
type Args map[string]string

func (a Args) lookup(key string) (string, bool) {
	v, ok := a[key]
	return v, ok
}

// CreateTaskRequest is a validated creation payload.
type CreateTaskRequest struct {
	Name     string
	UserName string
	Password string
	DueDate  time.Time
	Priority int
}

// UpdateTaskRequest is a validated partial update. Absent fields keep the
// stored value.
type UpdateTaskRequest struct {
	Name     models.Optional[string]
	DueDate  models.Optional[time.Time]
	Priority models.Optional[int]
	Status   models.Optional[int]
}

// ParseCreateTask checks the creation schema in field order and reports the
// first missing or malformed field. The priority range is checked
// separately by ValidatePriority.
func ParseCreateTask(args Args) (*CreateTaskRequest, error) {
	var req CreateTaskRequest

	name, ok := args.lookup("name")
	if !ok || strings.TrimSpace(name) == "" {
		return nil, missingParam("name", MsgTaskName)
	}
	req.Name = name

	if req.UserName, ok = args.lookup("user_name"); !ok {
		return nil, validationError("user_name", MsgMissingParam)
	}
	if req.Password, ok = args.lookup("password"); !ok {
		return nil, validationError("password", MsgMissingParam)
	}

	due, ok := args.lookup("due_date")
	if !ok {
		return nil, missingParam("due_date", MsgDateFormat)
	}
	dueDate, err := ParseDueDate(due)
	if err != nil {
		return nil, err
	}
	req.DueDate = dueDate

	raw, ok := args.lookup("priority")
	if !ok {
		return nil, validationError("priority", MsgMissingParam)
	}
	if req.Priority, err = parseInt("priority", raw); err != nil {
		return nil, err
	}

	return &req, nil
}

// ParseUpdateTask reads the optional update fields that are present.
// Integer fields are converted first and a present priority is range
// checked before the name and due date are looked at.
func ParseUpdateTask(args Args) (*UpdateTaskRequest, error) {
	var req UpdateTaskRequest

	if raw, ok := args.lookup("priority"); ok {
		priority, err := parseInt("priority", raw)
		if err != nil {
			return nil, err
		}
		if err := ValidatePriority(priority); err != nil {
			return nil, err
		}
		req.Priority = models.Some(priority)
	}
	if raw, ok := args.lookup("status"); ok {
		status, err := parseInt("status", raw)
		if err != nil {
			return nil, err
		}
		req.Status = models.Some(status)
	}
	if name, ok := args.lookup("name"); ok {
		if strings.TrimSpace(name) == "" {
			return nil, missingParam("name", MsgTaskName)
		}
		req.Name = models.Some(name)
	}
	if due, ok := args.lookup("due_date"); ok {
		dueDate, err := ParseDueDate(due)
		if err != nil {
			return nil, err
		}
		req.DueDate = models.Some(dueDate)
	}

	return &req, nil
}

// ParseDueDate parses a DD/MM/YYYY date into midnight UTC of that day.
func ParseDueDate(value string) (time.Time, error) {
	t, err := time.Parse(DueDateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, validationError("due_date", MsgDateFormat)
	}
	return t, nil
}

// ValidatePriority enforces the closed range [1,10].
func ValidatePriority(priority int) error {
	if priority < models.PriorityMin || priority > models.PriorityMax {
		return ErrPriorityRange()
	}
	return nil
}

func parseInt(field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, validationError(field, "Invalid value for parameter "+field)
	}
	return v, nil
}
