package dto

import (
	"time"

	"projectdesk/internal/models"
)

// AccountDTO represents the acting identity in API responses
type AccountDTO struct {
	ID    uint64      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	IsDeleted bool      `json:"is_deleted"`
	Version   uint64    `json:"version"`
	Tasks     []TaskDTO `json:"tasks,omitempty"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID        uint64           `json:"id"`
	Name      string           `json:"name"`
	From      time.Time        `json:"from"`
	To        time.Time        `json:"to"`
	State     models.TaskState `json:"state"`
	ProjectID uint64           `json:"project_id"`
	Assignee  string           `json:"assignee"`
	IsDeleted bool             `json:"is_deleted"`
	Version   uint64           `json:"version"`
}

// WorkerDTO represents a worker in API responses
type WorkerDTO struct {
	ID            uint64               `json:"id"`
	FirstName     string               `json:"first_name"`
	LastName      string               `json:"last_name"`
	FullName      string               `json:"full_name"`
	Email         string               `json:"email"`
	BirthDate     time.Time            `json:"birth_date"`
	Position      string               `json:"position"`
	HireDate      time.Time            `json:"hire_date"`
	FireDate      *time.Time           `json:"fire_date,omitempty"`
	Status        models.WorkerStatus  `json:"status"`
	EducationType models.EducationType `json:"education_type"`
	Role          models.Role          `json:"role"`
	IsDeleted     bool                 `json:"is_deleted"`
	Version       uint64               `json:"version"`
}

// Conversion functions

// ToAccountDTO converts an Account model to AccountDTO
func ToAccountDTO(account models.Account) AccountDTO {
	return AccountDTO{
		ID:    account.ID,
		Email: account.Email,
		Role:  account.Role,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:        project.ID,
		Name:      project.Name,
		From:      project.From,
		To:        project.To,
		IsDeleted: project.IsDeleted,
		Version:   project.Version,
	}

	if len(project.Tasks) > 0 {
		dto.Tasks = make([]TaskDTO, len(project.Tasks))
		for i, task := range project.Tasks {
			dto.Tasks[i] = ToTaskDTO(task)
		}
	}

	return dto
}

// ToProjectDTOs converts a slice of Project models
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		dtos[i] = ToProjectDTO(project)
	}
	return dtos
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:        task.ID,
		Name:      task.Name,
		From:      task.From,
		To:        task.To,
		State:     task.State,
		ProjectID: task.ProjectID,
		Assignee:  task.Assignee,
		IsDeleted: task.IsDeleted,
		Version:   task.Version,
	}
}

// ToTaskDTOs converts a slice of Task models
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToWorkerDTO converts a Worker model to WorkerDTO
func ToWorkerDTO(worker models.Worker) WorkerDTO {
	return WorkerDTO{
		ID:            worker.ID,
		FirstName:     worker.FirstName,
		LastName:      worker.LastName,
		FullName:      worker.FullName(),
		Email:         worker.Email,
		BirthDate:     worker.BirthDate,
		Position:      worker.Position,
		HireDate:      worker.HireDate,
		FireDate:      worker.FireDate,
		Status:        worker.Status,
		EducationType: worker.EducationType,
		Role:          worker.Role,
		IsDeleted:     worker.IsDeleted,
		Version:       worker.Version,
	}
}

// ToWorkerDTOs converts a slice of Worker models
func ToWorkerDTOs(workers []models.Worker) []WorkerDTO {
	dtos := make([]WorkerDTO, len(workers))
	for i, worker := range workers {
		dtos[i] = ToWorkerDTO(worker)
	}
	return dtos
}
