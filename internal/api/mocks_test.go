package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) CreateProject(
	ctx context.Context,
	userID uuid.UUID,
	name, description string,
) (*domain.Project, error) {
	args := m.Called(ctx, userID, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectService) ListProjects(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*domain.Project), args.Error(1)
}

func (m *MockProjectService) GetProject(ctx context.Context, userID, projectID uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectService) UpdateProject(
	ctx context.Context,
	userID, projectID uuid.UUID,
	name, description string,
) (*domain.Project, error) {
	args := m.Called(ctx, userID, projectID, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectService) DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error {
	return m.Called(ctx, userID, projectID).Error(0)
}

func (m *MockProjectService) AddMember(
	ctx context.Context,
	actorID, projectID, userID uuid.UUID,
) (*domain.ProjectMember, error) {
	args := m.Called(ctx, actorID, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectMember), args.Error(1)
}

func (m *MockProjectService) RemoveMember(ctx context.Context, actorID, projectID, userID uuid.UUID) error {
	return m.Called(ctx, actorID, projectID, userID).Error(0)
}

func (m *MockProjectService) ListMembers(
	ctx context.Context,
	userID, projectID uuid.UUID,
) ([]*domain.ProjectMember, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Get(0).([]*domain.ProjectMember), args.Error(1)
}

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(
	ctx context.Context,
	userID, projectID uuid.UUID,
	input service.TaskInput,
) (*domain.Task, error) {
	args := m.Called(ctx, userID, projectID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context, userID, projectID uuid.UUID) ([]*domain.Task, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *MockTaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, userID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	update service.TaskUpdate,
) (*domain.Task, error) {
	args := m.Called(ctx, userID, taskID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	return m.Called(ctx, userID, taskID).Error(0)
}

type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) CreateNote(
	ctx context.Context,
	userID, projectID uuid.UUID,
	content string,
) (*domain.Note, error) {
	args := m.Called(ctx, userID, projectID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *MockNoteService) ListNotes(ctx context.Context, userID, projectID uuid.UUID) ([]*domain.Note, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Get(0).([]*domain.Note), args.Error(1)
}

func (m *MockNoteService) GetNote(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error) {
	args := m.Called(ctx, userID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *MockNoteService) UpdateNote(
	ctx context.Context,
	userID, noteID uuid.UUID,
	content string,
) (*domain.Note, error) {
	args := m.Called(ctx, userID, noteID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *MockNoteService) DeleteNote(ctx context.Context, userID, noteID uuid.UUID) error {
	return m.Called(ctx, userID, noteID).Error(0)
}

var (
	_ service.ProjectService = (*MockProjectService)(nil)
	_ service.TaskService    = (*MockTaskService)(nil)
	_ service.NoteService    = (*MockNoteService)(nil)
)
