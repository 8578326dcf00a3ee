package database

import (
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared with the repositories.
const (
	UsersTable = "users"
	TasksTable = "tasks"

	UserColumnID       = "user_id"
	UserColumnName     = "name"
	UserColumnEmail    = "email"
	UserColumnPassword = "password"
	UserColumnRole     = "role"

	TaskColumnID         = "task_id"
	TaskColumnName       = "name"
	TaskColumnDueDate    = "due_date"
	TaskColumnPriority   = "priority"
	TaskColumnPostedDate = "posted_date"
	TaskColumnStatus     = "status"
	TaskColumnUserID     = "user_id"
)

var (
	// UserColumns lists the users columns in scan order.
	UserColumns = []string{UserColumnID, UserColumnName, UserColumnEmail, UserColumnPassword, UserColumnRole}
	// TaskColumns lists the tasks columns in scan order.
	TaskColumns = []string{TaskColumnID, TaskColumnName, TaskColumnDueDate, TaskColumnPriority, TaskColumnPostedDate, TaskColumnStatus, TaskColumnUserID}
)

// dateType stores calendar dates without a time component.
var dateType = map[string]string{dialect.Postgres: "date", dialect.MySQL: "date"}

// Tables returns the schema definition of the store.
func Tables() []*schema.Table {
	userColumns := []*schema.Column{
		{Name: UserColumnID, Type: field.TypeInt64, Increment: true},
		{Name: UserColumnName, Type: field.TypeString, Unique: true, Size: 255},
		{Name: UserColumnEmail, Type: field.TypeString, Unique: true, Size: 255},
		{Name: UserColumnPassword, Type: field.TypeString, Size: 255},
		{Name: UserColumnRole, Type: field.TypeString, Size: 32, Default: "user"},
	}
	users := &schema.Table{
		Name:       UsersTable,
		Columns:    userColumns,
		PrimaryKey: []*schema.Column{userColumns[0]},
		// User names are compared case-sensitively. MySQL applies this to
		// the unique index and lookups; sqlite and postgres already do.
		Annotation: &entsql.Annotation{Charset: "utf8mb4", Collation: "utf8mb4_bin"},
	}

	taskColumns := []*schema.Column{
		{Name: TaskColumnID, Type: field.TypeInt64, Increment: true},
		{Name: TaskColumnName, Type: field.TypeString, Size: 255},
		{Name: TaskColumnDueDate, Type: field.TypeTime, SchemaType: dateType},
		{Name: TaskColumnPriority, Type: field.TypeInt},
		{Name: TaskColumnPostedDate, Type: field.TypeTime, SchemaType: dateType},
		{Name: TaskColumnStatus, Type: field.TypeInt, Default: 1},
		{Name: TaskColumnUserID, Type: field.TypeInt64},
	}
	tasks := &schema.Table{
		Name:       TasksTable,
		Columns:    taskColumns,
		PrimaryKey: []*schema.Column{taskColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "tasks_users_tasks",
				Columns:    []*schema.Column{taskColumns[6]},
				RefColumns: []*schema.Column{userColumns[0]},
				RefTable:   users,
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "task_user_id",
				Unique:  false,
				Columns: []*schema.Column{taskColumns[6]},
			},
		},
	}

	return []*schema.Table{users, tasks}
}
