package service

import (
	"bytes"
	"context"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gurkanbulca/taskapi/internal/database/dbtest"
	"github.com/gurkanbulca/taskapi/internal/models"
	"github.com/gurkanbulca/taskapi/internal/repository"
	"github.com/gurkanbulca/taskapi/pkg/auth"
)

type testEnv struct {
	t         *testing.T
	tasks     *repository.TaskRepository
	users     *repository.UserRepository
	passwords *auth.PasswordManager
	logs      *bytes.Buffer
	taskSvc   *TaskService
	userSvc   *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	db := dbtest.Open(t)
	logs := &bytes.Buffer{}
	securityLogger := NewSecurityLogger(log.New(logs, "", 0))
	passwords := auth.NewPasswordManager().WithCost(bcrypt.MinCost)

	tasks := repository.NewTaskRepository(db)
	users := repository.NewUserRepository(db)
	verifier := NewCredentialVerifier(users, passwords)
	guard := NewGuard(tasks, securityLogger)

	taskSvc := NewTaskService(tasks, verifier, guard, securityLogger, TaskServiceConfig{PageSize: 20, MaxPageSize: 100})
	taskSvc.now = func() time.Time { return time.Date(2024, time.May, 4, 21, 30, 0, 0, time.UTC) }

	return &testEnv{
		t:         t,
		tasks:     tasks,
		users:     users,
		passwords: passwords,
		logs:      logs,
		taskSvc:   taskSvc,
		userSvc:   NewUserService(users, verifier, passwords, securityLogger),
	}
}

func (e *testEnv) createUser(name, password, role string) *models.User {
	hash, err := e.passwords.HashPassword(password)
	require.NoError(e.t, err)
	u, err := e.users.Create(context.Background(), &models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: hash,
		Role:     role,
	})
	require.NoError(e.t, err)
	return u
}

func (e *testEnv) addTasks(userID int64) []*models.Task {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	inputs := []*repository.TaskInput{
		{Name: "Run around in circles", DueDate: day(2015, 10, 22), Priority: 10, PostedDate: day(2015, 10, 5), Status: 1, UserID: userID},
		{Name: "Purchase Real Python", DueDate: day(2016, 2, 23), Priority: 10, PostedDate: day(2016, 2, 7), Status: 1, UserID: userID},
	}
	out := make([]*models.Task, 0, len(inputs))
	for _, in := range inputs {
		task, err := e.tasks.Create(context.Background(), in)
		require.NoError(e.t, err)
		out = append(out, task)
	}
	return out
}

func identityOf(u *models.User) *models.Identity {
	return &models.Identity{UserID: u.ID, UserName: u.Name, Role: u.Role}
}

func requireKind(t *testing.T, err error, kind Kind, message string) {
	t.Helper()
	require.Error(t, err)
	svcErr, ok := err.(*Error)
	require.True(t, ok, "expected *Error, got %T: %v", err, err)
	require.Equal(t, kind, svcErr.Kind)
	require.Equal(t, message, svcErr.Message)
}

func listAll() repository.ListFilter {
	return repository.ListFilter{Limit: repository.MaxListLimit}
}
