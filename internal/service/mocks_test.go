package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/events"
	"github.com/phrazzld/taskhub-api/internal/store"
	"github.com/stretchr/testify/mock"
)

type MockProjectStore struct {
	mock.Mock
}

func (m *MockProjectStore) Create(ctx context.Context, p *domain.Project) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*domain.Project), args.Error(1)
}

func (m *MockProjectStore) Update(ctx context.Context, p *domain.Project) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProjectStore) WithTx(*sql.Tx) store.ProjectStore { return m }

type MockMembershipStore struct {
	mock.Mock
}

func (m *MockMembershipStore) AddMember(ctx context.Context, member *domain.ProjectMember) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockMembershipStore) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	return m.Called(ctx, projectID, userID).Error(0)
}

func (m *MockMembershipStore) ListMembers(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]*domain.ProjectMember), args.Error(1)
}

func (m *MockMembershipStore) GetMember(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
	args := m.Called(ctx, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectMember), args.Error(1)
}

func (m *MockMembershipStore) IsMember(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipStore) WithTx(*sql.Tx) store.MembershipStore { return m }

type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, t *domain.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *MockTaskStore) Update(ctx context.Context, t *domain.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTaskStore) WithTx(*sql.Tx) store.TaskStore { return m }

type MockNoteStore struct {
	mock.Mock
}

func (m *MockNoteStore) Create(ctx context.Context, n *domain.Note) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *MockNoteStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Note, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]*domain.Note), args.Error(1)
}

func (m *MockNoteStore) Update(ctx context.Context, n *domain.Note) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNoteStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockNoteStore) WithTx(*sql.Tx) store.NoteStore { return m }

// recordingNotifier captures published events.
type recordingNotifier struct {
	events []*events.EntityEvent
}

func (r *recordingNotifier) Notify(_ context.Context, e *events.EntityEvent) {
	r.events = append(r.events, e)
}

func (r *recordingNotifier) names() []string {
	names := make([]string, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.Name())
	}
	return names
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Invalidate(ctx context.Context, userID, projectID uuid.UUID) error {
	return m.Called(ctx, userID, projectID).Error(0)
}
