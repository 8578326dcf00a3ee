package models

import "time"

// DateLayout is the serialized form of every calendar date in API responses.
const DateLayout = "2006-01-02"

// Task status values. Update accepts any integer; only open is assigned here.
const (
	TaskStatusOpen = 1
)

// Priority bounds, both inclusive.
const (
	PriorityMin = 1
	PriorityMax = 10
)

type Task struct {
	ID         int64     `db:"task_id"`
	Name       string    `db:"name"`
	DueDate    time.Time `db:"due_date"`
	Priority   int       `db:"priority"`
	PostedDate time.Time `db:"posted_date"`
	Status     int       `db:"status"`
	UserID     int64     `db:"user_id"`
}

// TaskView is the projection echoed by create, update and delete.
type TaskView struct {
	Name       string `json:"name"`
	PostedDate string `json:"posted_date"`
	DueDate    string `json:"due_date"`
	Priority   int    `json:"priority"`
	Status     int    `json:"status"`
}

// TaskDetail is the projection returned by list and get.
type TaskDetail struct {
	TaskID     int64  `json:"task_id"`
	Name       string `json:"name"`
	PostedDate string `json:"posted_date"`
	DueDate    string `json:"due_date"`
	Priority   int    `json:"priority"`
	Status     int    `json:"status"`
	UserID     int64  `json:"user_id"`
}

func (t *Task) View() TaskView {
	return TaskView{
		Name:       t.Name,
		PostedDate: FormatDate(t.PostedDate),
		DueDate:    FormatDate(t.DueDate),
		Priority:   t.Priority,
		Status:     t.Status,
	}
}

func (t *Task) Detail() TaskDetail {
	return TaskDetail{
		TaskID:     t.ID,
		Name:       t.Name,
		PostedDate: FormatDate(t.PostedDate),
		DueDate:    FormatDate(t.DueDate),
		Priority:   t.Priority,
		Status:     t.Status,
		UserID:     t.UserID,
	}
}

// FormatDate renders the calendar date of t, ignoring its time of day.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
