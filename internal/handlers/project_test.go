package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"projectdesk/internal/constants"
	"projectdesk/internal/models"
	"projectdesk/internal/repository"
	"projectdesk/internal/services"
)

func setupProjectHandler(t *testing.T) (*gorm.DB, *ProjectHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Project{},
		&models.Task{},
		&models.Worker{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	projectService := services.NewProjectService(projectRepo, taskRepo)
	accessService := services.NewAccessService(projectRepo, taskRepo)

	return db, NewProjectHandler(projectService, accessService)
}

func projectContext(t *testing.T, method, url, body string, identity models.Identity) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, url, bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyIdentity, identity)
	return c, w
}

func seedProjectWithTask(t *testing.T, db *gorm.DB, name, assignee string) (*models.Project, *models.Task) {
	t.Helper()

	project := &models.Project{
		Name:    name,
		From:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:      time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		Version: 1,
	}
	require.NoError(t, db.Create(project).Error)

	task := &models.Task{
		Name:      "Task on " + name,
		From:      time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		State:     models.TaskStatePlanned,
		ProjectID: project.ID,
		Assignee:  assignee,
		Version:   1,
	}
	require.NoError(t, db.Create(task).Error)
	return project, task
}

func TestGetProject_AssignedWorkerCanRead(t *testing.T) {
	db, handler := setupProjectHandler(t)
	project, _ := seedProjectWithTask(t, db, "Warehouse move", "worker1@example.com")

	identity := models.Identity{AccountID: 2, Username: "worker1@example.com", Role: models.RoleWorker}
	c, w := projectContext(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), "", identity)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", project.ID)}}

	handler.GetProject(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Warehouse move")
	require.Contains(t, w.Body.String(), "Task on Warehouse move")
}

func TestGetProject_UnassignedWorkerGets404(t *testing.T) {
	db, handler := setupProjectHandler(t)
	project, _ := seedProjectWithTask(t, db, "Warehouse move", "worker1@example.com")

	identity := models.Identity{AccountID: 3, Username: "worker2@example.com", Role: models.RoleWorker}
	c, w := projectContext(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), "", identity)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", project.ID)}}

	handler.GetProject(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProject_HidesDeletedTasks(t *testing.T) {
	db, handler := setupProjectHandler(t)
	project, task := seedProjectWithTask(t, db, "Warehouse move", "worker1@example.com")
	require.NoError(t, db.Model(task).Update("is_deleted", true).Error)

	identity := models.Identity{AccountID: 1, Username: "admin@example.com", Role: models.RoleAdmin}
	c, w := projectContext(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), "", identity)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", project.ID)}}

	handler.GetProject(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "Task on Warehouse move")
}

func TestCreateProject(t *testing.T) {
	db, handler := setupProjectHandler(t)

	identity := models.Identity{AccountID: 1, Username: "admin@example.com", Role: models.RoleAdmin}
	body := `{"name":"Warehouse move","from":"2026-01-01T00:00:00Z","to":"2026-12-31T00:00:00Z"}`
	c, w := projectContext(t, http.MethodPost, "/api/projects", body, identity)

	handler.CreateProject(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Project{}).Where("name = ?", "Warehouse move").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreateProject_RejectsBadWindow(t *testing.T) {
	_, handler := setupProjectHandler(t)

	identity := models.Identity{AccountID: 1, Username: "admin@example.com", Role: models.RoleAdmin}
	body := `{"name":"Warehouse move","from":"2026-12-31T00:00:00Z","to":"2026-01-01T00:00:00Z"}`
	c, w := projectContext(t, http.MethodPost, "/api/projects", body, identity)

	handler.CreateProject(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProject_StaleVersionConflicts(t *testing.T) {
	db, handler := setupProjectHandler(t)
	project, _ := seedProjectWithTask(t, db, "Warehouse move", "worker1@example.com")

	identity := models.Identity{AccountID: 1, Username: "admin@example.com", Role: models.RoleAdmin}
	body := fmt.Sprintf(`{"name":"Warehouse move v2","from":"2026-01-01T00:00:00Z","to":"2026-12-31T00:00:00Z","version":%d}`, project.Version+1)
	c, w := projectContext(t, http.MethodPut, fmt.Sprintf("/api/projects/%d", project.ID), body, identity)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", project.ID)}}

	handler.UpdateProject(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteProject_CascadesToTasks(t *testing.T) {
	db, handler := setupProjectHandler(t)
	project, task := seedProjectWithTask(t, db, "Warehouse move", "worker1@example.com")

	identity := models.Identity{AccountID: 1, Username: "admin@example.com", Role: models.RoleAdmin}
	c, w := projectContext(t, http.MethodDelete, fmt.Sprintf("/api/projects/%d", project.ID), "", identity)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", project.ID)}}

	handler.DeleteProject(c)

	require.Equal(t, http.StatusOK, w.Code)

	var reloadedProject models.Project
	require.NoError(t, db.First(&reloadedProject, project.ID).Error)
	require.True(t, reloadedProject.IsDeleted)

	var reloadedTask models.Task
	require.NoError(t, db.First(&reloadedTask, task.ID).Error)
	require.True(t, reloadedTask.IsDeleted)
}

func TestListProjects_WorkerDeduplicatesByProject(t *testing.T) {
	db, handler := setupProjectHandler(t)
	project, _ := seedProjectWithTask(t, db, "Warehouse move", "worker1@example.com")

	// Second live task on the same project must not produce a duplicate entry
	second := &models.Task{
		Name:      "Second task",
		From:      time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		State:     models.TaskStatePlanned,
		ProjectID: project.ID,
		Assignee:  "worker1@example.com",
		Version:   1,
	}
	require.NoError(t, db.Create(second).Error)

	identity := models.Identity{AccountID: 2, Username: "worker1@example.com", Role: models.RoleWorker}
	c, w := projectContext(t, http.MethodGet, "/api/projects", "", identity)

	handler.ListProjects(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, bytes.Count(w.Body.Bytes(), []byte("Warehouse move")))
}
