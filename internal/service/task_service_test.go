package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskapi/internal/models"
)

func TestTaskService_CreateTask(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("Tester", "python", models.RoleUser)

	task, err := env.taskSvc.CreateTask(context.Background(), validCreateArgs())
	require.NoError(t, err)

	assert.Equal(t, "Add a new task using POST API", task.Name)
	assert.Equal(t, owner.ID, task.UserID)
	assert.Equal(t, models.TaskStatusOpen, task.Status)
	assert.Equal(t, "2055-09-22", models.FormatDate(task.DueDate))
	assert.Equal(t, "2024-05-04", models.FormatDate(task.PostedDate))
}

func TestTaskService_CreateTask_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(Args)
		kind    Kind
		message string
	}{
		{
			name:    "unknown user",
			mutate:  func(a Args) { a["user_name"] = "Cracker"; a["password"] = "crackcrack" },
			kind:    KindUnauthenticated,
			message: MsgBadCredentials,
		},
		{
			name:    "wrong password",
			mutate:  func(a Args) { a["password"] = "crackcrack" },
			kind:    KindUnauthenticated,
			message: MsgBadCredentials,
		},
		{
			name:    "user name differs in case",
			mutate:  func(a Args) { a["user_name"] = "tester" },
			kind:    KindUnauthenticated,
			message: MsgBadCredentials,
		},
		{
			name:    "priority too high",
			mutate:  func(a Args) { a["priority"] = "333" },
			kind:    KindValidation,
			message: MsgPriorityRange,
		},
		{
			name:    "priority zero",
			mutate:  func(a Args) { a["priority"] = "0" },
			kind:    KindValidation,
			message: MsgPriorityRange,
		},
		{
			name:    "missing due date beats bad password",
			mutate:  func(a Args) { delete(a, "due_date"); a["password"] = "crackcrack" },
			kind:    KindValidation,
			message: MissingMessage(MsgDateFormat),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.createUser("Tester", "python", models.RoleUser)

			args := validCreateArgs()
			tt.mutate(args)
			_, err := env.taskSvc.CreateTask(context.Background(), args)
			requireKind(t, err, tt.kind, tt.message)

			tasks, err := env.taskSvc.ListTasks(context.Background(), 0, 0)
			require.NoError(t, err)
			assert.Empty(t, tasks, "no task may be stored on failure")
		})
	}
}

func TestTaskService_CreateTask_LogsRejectedCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("Tester", "python", models.RoleUser)

	args := validCreateArgs()
	args["password"] = "crackcrack"
	_, err := env.taskSvc.CreateTask(context.Background(), args)
	require.Error(t, err)
	assert.Contains(t, env.logs.String(), "event=credentials_failed")
}

func TestTaskService_GetTask(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("Tester", "python", models.RoleUser)
	tasks := env.addTasks(owner.ID)
	ctx := context.Background()

	got, err := env.taskSvc.GetTask(ctx, tasks[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Purchase Real Python", got.Name)

	_, err = env.taskSvc.GetTask(ctx, 209)
	requireKind(t, err, KindNotFound, MsgNotFound)
}

func TestTaskService_ListTasks_Paging(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("Tester", "python", models.RoleUser)
	for i := 0; i < 3; i++ {
		env.addTasks(owner.ID)
	}
	ctx := context.Background()

	all, err := env.taskSvc.ListTasks(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	page, err := env.taskSvc.ListTasks(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, all[2].ID, page[0].ID)
	assert.Equal(t, all[3].ID, page[1].ID)
}

func TestTaskService_UpdateTask(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("Tester", "python", models.RoleUser)
	other := env.createUser("Jeremy", "notOwner", models.RoleUser)
	admin := env.createUser("Superman", "allpowerful", models.RoleAdmin)

	tests := []struct {
		name     string
		identity func() *models.Identity
		taskID   int64
		args     Args
		kind     Kind
		message  string
	}{
		{
			name:     "no session",
			identity: func() *models.Identity { return nil },
			taskID:   2,
			args:     Args{"name": "Updated", "priority": "2"},
			kind:     KindUnauthenticated,
			message:  MsgNotLoggedIn,
		},
		{
			name:     "no session on missing task",
			identity: func() *models.Identity { return nil },
			taskID:   209,
			args:     Args{"name": "Updated"},
			kind:     KindUnauthenticated,
			message:  MsgNotLoggedIn,
		},
		{
			name:     "missing task",
			identity: func() *models.Identity { return identityOf(owner) },
			taskID:   209,
			args:     Args{"name": "Updated"},
			kind:     KindNotFound,
			message:  MsgNotFound,
		},
		{
			name:     "not owner",
			identity: func() *models.Identity { return identityOf(other) },
			taskID:   2,
			args:     Args{"name": "Updated"},
			kind:     KindForbidden,
			message:  MsgNotOwner,
		},
		{
			name:     "not owner with bad priority",
			identity: func() *models.Identity { return identityOf(other) },
			taskID:   2,
			args:     Args{"priority": "54"},
			kind:     KindForbidden,
			message:  MsgNotOwner,
		},
		{
			name:     "priority out of range",
			identity: func() *models.Identity { return identityOf(owner) },
			taskID:   2,
			args:     Args{"priority": "54"},
			kind:     KindValidation,
			message:  MsgPriorityRange,
		},
		{
			name:     "bad priority with bad date",
			identity: func() *models.Identity { return identityOf(owner) },
			taskID:   2,
			args:     Args{"due_date": "bad", "priority": "54"},
			kind:     KindValidation,
			message:  MsgPriorityRange,
		},
		{
			name:     "bad date",
			identity: func() *models.Identity { return identityOf(admin) },
			taskID:   2,
			args:     Args{"due_date": "2055-01-01"},
			kind:     KindValidation,
			message:  MsgDateFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := env.tasks.List(context.Background(), listAll())
			require.NoError(t, err)
			if len(before) == 0 {
				env.addTasks(owner.ID)
				before, err = env.tasks.List(context.Background(), listAll())
				require.NoError(t, err)
			}

			_, err = env.taskSvc.UpdateTask(context.Background(), tt.identity(), tt.taskID, tt.args)
			requireKind(t, err, tt.kind, tt.message)

			after, err := env.tasks.List(context.Background(), listAll())
			require.NoError(t, err)
			assert.Equal(t, before, after, "failed update must not change any task")
		})
	}
}

func TestTaskService_UpdateTask_Owner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("Tester", "python", models.RoleUser)
	tasks := env.addTasks(owner.ID)

	updated, err := env.taskSvc.UpdateTask(context.Background(), identityOf(owner), tasks[1].ID,
		Args{"name": "Updated", "priority": "2", "due_date": "22/01/0888"})
	require.NoError(t, err)

	assert.Equal(t, "Updated", updated.Name)
	assert.Equal(t, 2, updated.Priority)
	assert.Equal(t, "0888-01-22", updated.View().DueDate)
	assert.Equal(t, owner.ID, updated.UserID)
}

func TestTaskService_UpdateTask_WithoutPriority(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("Tester", "python", models.RoleUser)
	tasks := env.addTasks(owner.ID)

	updated, err := env.taskSvc.UpdateTask(context.Background(), identityOf(owner), tasks[0].ID, Args{"status": "0"})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Status)
	assert.Equal(t, 10, updated.Priority)
}

func TestTaskService_UpdateTask_AdminOverride(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("Tester", "python", models.RoleUser)
	admin := env.createUser("Superman", "allpowerful", models.RoleAdmin)
	tasks := env.addTasks(owner.ID)

	updated, err := env.taskSvc.UpdateTask(context.Background(), identityOf(admin), tasks[1].ID,
		Args{"name": "Updated", "priority": "2"})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Priority)
	assert.Equal(t, owner.ID, updated.UserID, "ownership never changes")
	assert.Contains(t, env.logs.String(), "event=admin_override")
}

func TestTaskService_DeleteTask(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("Tester", "python", models.RoleUser)
	other := env.createUser("Jeremy", "notOwner", models.RoleUser)
	admin := env.createUser("Superman", "allpowerful", models.RoleAdmin)
	tasks := env.addTasks(owner.ID)
	ctx := context.Background()

	_, err := env.taskSvc.DeleteTask(ctx, nil, tasks[1].ID)
	requireKind(t, err, KindUnauthenticated, MsgNotLoggedIn)

	_, err = env.taskSvc.DeleteTask(ctx, identityOf(other), tasks[1].ID)
	requireKind(t, err, KindForbidden, MsgNotOwner)
	assert.Contains(t, env.logs.String(), "event=access_denied")

	deleted, err := env.taskSvc.DeleteTask(ctx, identityOf(admin), tasks[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Purchase Real Python", deleted.Name)

	_, err = env.taskSvc.DeleteTask(ctx, identityOf(owner), tasks[1].ID)
	requireKind(t, err, KindNotFound, MsgNotFound)

	remaining, err := env.taskSvc.ListTasks(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Run around in circles", remaining[0].Name)

	_, err = env.taskSvc.DeleteTask(ctx, identityOf(owner), tasks[0].ID)
	require.NoError(t, err)
}

func TestTaskService_DueDateRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("Tester", "python", models.RoleUser)
	ctx := context.Background()

	for _, due := range []string{"22/09/2055", "1/2/2015", "29/02/2024", "22/01/0888"} {
		t.Run(due, func(t *testing.T) {
			args := validCreateArgs()
			args["due_date"] = due
			created, err := env.taskSvc.CreateTask(ctx, args)
			require.NoError(t, err)

			want, err := ParseDueDate(due)
			require.NoError(t, err)

			fetched, err := env.taskSvc.GetTask(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, want.Format(models.DateLayout), fetched.Detail().DueDate, fmt.Sprintf("due %s", due))
		})
	}
}
