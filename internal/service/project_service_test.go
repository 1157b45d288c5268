package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type projectFixture struct {
	svc      ProjectService
	projects *MockProjectStore
	members  *MockMembershipStore
	cache    *MockCache
	notifier *recordingNotifier
	sql      sqlmock.Sqlmock
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &projectFixture{
		projects: &MockProjectStore{},
		members:  &MockMembershipStore{},
		cache:    &MockCache{},
		notifier: &recordingNotifier{},
		sql:      sqlMock,
	}
	f.svc, err = NewProjectService(db, f.projects, f.members, f.cache, f.notifier, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		f.projects.AssertExpectations(t)
		f.members.AssertExpectations(t)
		f.cache.AssertExpectations(t)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
	return f
}

func (f *projectFixture) withProject(owner uuid.UUID, members ...uuid.UUID) *domain.Project {
	p := &domain.Project{ID: uuid.New(), OwnerID: owner, Name: "Roadmap"}
	f.projects.On("GetByID", mock.Anything, p.ID).Return(p, nil).Maybe()
	f.members.On("IsMember", mock.Anything, owner, p.ID).Return(true, nil).Maybe()
	for _, m := range members {
		f.members.On("IsMember", mock.Anything, m, p.ID).Return(true, nil).Maybe()
	}
	return p
}

func TestNewProjectServiceRequiresDependencies(t *testing.T) {
	_, err := NewProjectService(nil, &MockProjectStore{}, &MockMembershipStore{}, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateProject(t *testing.T) {
	f := newProjectFixture(t)
	ownerID := uuid.New()

	f.sql.ExpectBegin()
	f.sql.ExpectCommit()
	f.projects.On("Create", mock.Anything, mock.AnythingOfType("*domain.Project")).Return(nil)
	f.members.On("AddMember", mock.Anything, mock.MatchedBy(func(m *domain.ProjectMember) bool {
		return m.UserID == ownerID && m.Role == domain.RoleOwner
	})).Return(nil)
	f.cache.On("Invalidate", mock.Anything, ownerID, mock.Anything).Return(nil)

	p, err := f.svc.CreateProject(context.Background(), ownerID, "Launch", "")

	require.NoError(t, err)
	assert.Equal(t, ownerID, p.OwnerID)
	assert.Equal(t, []string{"project:created"}, f.notifier.names())
	assert.Equal(t, ownerID, f.notifier.events[0].ActorID)
}

func TestCreateProjectRollsBackOnMemberFailure(t *testing.T) {
	f := newProjectFixture(t)

	f.sql.ExpectBegin()
	f.sql.ExpectRollback()
	f.projects.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.members.On("AddMember", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	_, err := f.svc.CreateProject(context.Background(), uuid.New(), "Launch", "")

	assert.Error(t, err)
	assert.Empty(t, f.notifier.events, "nothing is published for a failed write")
}

func TestCreateProjectValidation(t *testing.T) {
	f := newProjectFixture(t)

	_, err := f.svc.CreateProject(context.Background(), uuid.New(), "", "")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetProjectAccess(t *testing.T) {
	f := newProjectFixture(t)
	owner, stranger := uuid.New(), uuid.New()
	p := f.withProject(owner)
	f.members.On("IsMember", mock.Anything, stranger, p.ID).Return(false, nil)
	missing := uuid.New()
	f.projects.On("GetByID", mock.Anything, missing).Return(nil, store.ErrProjectNotFound)

	got, err := f.svc.GetProject(context.Background(), owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = f.svc.GetProject(context.Background(), stranger, p.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.GetProject(context.Background(), owner, missing)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateProjectPublishes(t *testing.T) {
	f := newProjectFixture(t)
	owner, member := uuid.New(), uuid.New()
	p := f.withProject(owner, member)
	f.projects.On("Update", mock.Anything, p).Return(nil)

	got, err := f.svc.UpdateProject(context.Background(), member, p.ID, "Renamed", "d")

	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, "project:updated", f.notifier.events[0].Name())
	assert.Equal(t, member, f.notifier.events[0].ActorID)
}

func TestDeleteProjectOwnerOnly(t *testing.T) {
	f := newProjectFixture(t)
	owner, member := uuid.New(), uuid.New()
	p := f.withProject(owner, member)
	f.members.On("ListMembers", mock.Anything, p.ID).Return([]*domain.ProjectMember{
		{ProjectID: p.ID, UserID: owner, Role: domain.RoleOwner},
		{ProjectID: p.ID, UserID: member, Role: domain.RoleMember},
	}, nil).Once()
	f.projects.On("Delete", mock.Anything, p.ID).Return(nil).Once()
	f.cache.On("Invalidate", mock.Anything, owner, p.ID).Return(nil).Once()
	f.cache.On("Invalidate", mock.Anything, member, p.ID).Return(nil).Once()

	assert.ErrorIs(t, f.svc.DeleteProject(context.Background(), member, p.ID), ErrNotOwned)
	require.NoError(t, f.svc.DeleteProject(context.Background(), owner, p.ID))
	assert.Equal(t, []string{"project:deleted"}, f.notifier.names())
}

func TestDeleteProjectKeepsCacheWhenDeleteFails(t *testing.T) {
	f := newProjectFixture(t)
	owner, member := uuid.New(), uuid.New()
	p := f.withProject(owner, member)
	f.members.On("ListMembers", mock.Anything, p.ID).Return([]*domain.ProjectMember{
		{ProjectID: p.ID, UserID: member, Role: domain.RoleMember},
	}, nil).Once()
	f.projects.On("Delete", mock.Anything, p.ID).Return(errors.New("db down")).Once()

	assert.Error(t, f.svc.DeleteProject(context.Background(), owner, p.ID))
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, member, p.ID)
	assert.Empty(t, f.notifier.events)
}

func TestAddMember(t *testing.T) {
	f := newProjectFixture(t)
	owner, member, newcomer := uuid.New(), uuid.New(), uuid.New()
	p := f.withProject(owner, member)

	f.members.On("AddMember", mock.Anything, mock.MatchedBy(func(m *domain.ProjectMember) bool {
		return m.UserID == newcomer && m.Role == domain.RoleMember
	})).Return(nil).Once()
	f.cache.On("Invalidate", mock.Anything, newcomer, p.ID).Return(errors.New("redis down")).Once()

	_, err := f.svc.AddMember(context.Background(), member, p.ID, newcomer)
	assert.ErrorIs(t, err, ErrNotOwned)

	added, err := f.svc.AddMember(context.Background(), owner, p.ID, newcomer)
	require.NoError(t, err, "cache invalidation failure must not fail the request")
	assert.Equal(t, p.ID, added.ProjectID)
}

func TestAddMemberDuplicate(t *testing.T) {
	f := newProjectFixture(t)
	owner, existing := uuid.New(), uuid.New()
	p := f.withProject(owner)
	f.members.On("AddMember", mock.Anything, mock.Anything).Return(store.ErrMemberExists)

	_, err := f.svc.AddMember(context.Background(), owner, p.ID, existing)

	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestRemoveMember(t *testing.T) {
	owner, member, other := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name    string
		actor   uuid.UUID
		target  uuid.UUID
		wantErr error
	}{
		{"owner removes member", owner, member, nil},
		{"member leaves", member, member, nil},
		{"member removes someone else", member, other, ErrNotOwned},
		{"owner cannot be removed", owner, owner, ErrOwnerMembership},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newProjectFixture(t)
			p := f.withProject(owner, member, other)
			if tc.wantErr == nil {
				f.members.On("RemoveMember", mock.Anything, p.ID, tc.target).Return(nil).Once()
				f.cache.On("Invalidate", mock.Anything, tc.target, p.ID).Return(nil).Once()
			}

			err := f.svc.RemoveMember(context.Background(), tc.actor, p.ID, tc.target)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, f.notifier.events)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"project:updated"}, f.notifier.names())
		})
	}
}
