package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Anthon002/NYSCAttendance/internal/domain"
	"github.com/Anthon002/NYSCAttendance/internal/repository"
)

type fakeTeamRepo struct {
	users  map[int64]domain.User
	perms  map[int64]domain.Permissions
	nextID int64

	deleted []int64
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		users: map[int64]domain.User{},
		perms: map[int64]domain.Permissions{},
	}
}

func (f *fakeTeamRepo) addUser(userType domain.UserType, perms domain.Permissions) domain.User {
	f.nextID++
	user := domain.User{
		ID:       f.nextID,
		Email:    "member@example.com",
		UserType: userType,
	}
	f.users[user.ID] = user
	f.perms[user.ID] = perms

	return user
}

func (f *fakeTeamRepo) FindByID(_ context.Context, id int64) (domain.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (f *fakeTeamRepo) FindPermissions(_ context.Context, userID int64) (domain.Permissions, error) {
	return f.perms[userID], nil
}

func (f *fakeTeamRepo) CreateWithPermissions(_ context.Context, user domain.User, permissions domain.Permissions) (domain.User, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}

	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	f.perms[user.ID] = permissions

	return user, nil
}

func (f *fakeTeamRepo) UpdatePermissions(_ context.Context, userID int64, assign, unassign domain.Permissions) error {
	var kept domain.Permissions
	for _, p := range f.perms[userID] {
		if !unassign.Has(p) {
			kept = append(kept, p)
		}
	}
	f.perms[userID] = append(kept, assign...)

	return nil
}

func (f *fakeTeamRepo) Delete(_ context.Context, userID int64) error {
	if _, ok := f.users[userID]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, userID)
	delete(f.perms, userID)
	f.deleted = append(f.deleted, userID)

	return nil
}

func (f *fakeTeamRepo) List(_ context.Context, _ string, _, _ int) ([]domain.User, map[int64]domain.Permissions, int64, error) {
	var users []domain.User
	for _, u := range f.users {
		users = append(users, u)
	}

	return users, f.perms, int64(len(users)), nil
}

var teamManagerPerms = domain.Permissions{domain.PermissionTeamManagement}

func validAddMember() AddTeamMemberInput {
	return AddTeamMemberInput{
		Email:       "new.admin@example.com",
		FirstName:   "Ngozi",
		LastName:    "Eze",
		Permissions: []string{domain.PermissionLocationManagement},
	}
}

func TestTeamService_AddTeamMember(t *testing.T) {
	repo := newFakeTeamRepo()
	notifier := &fakeNotifier{}
	svc := NewTeamService(repo, notifier)

	var sentPassword string
	svc.tempPassword = func(length int) string {
		require.Equal(t, tempPasswordLength, length)
		sentPassword = "Temp4Pass9Xy"

		return sentPassword
	}

	created, err := svc.AddTeamMember(context.Background(), teamManagerPerms, validAddMember())
	require.NoError(t, err)

	assert.Equal(t, "new.admin@example.com", created.Email)
	assert.Equal(t, domain.UserTypeAdmin, created.UserType)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte(sentPassword)))
	assert.Equal(t, []string{"new.admin@example.com"}, notifier.credentialEmails)
}

func TestTeamService_AddTeamMember_RequiresPermission(t *testing.T) {
	svc := NewTeamService(newFakeTeamRepo(), &fakeNotifier{})

	_, err := svc.AddTeamMember(context.Background(), domain.Permissions{domain.PermissionLocationManagement}, validAddMember())

	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestTeamService_AddTeamMember_UnknownPermissionTag(t *testing.T) {
	svc := NewTeamService(newFakeTeamRepo(), &fakeNotifier{})

	input := validAddMember()
	input.Permissions = []string{"super-powers"}

	_, err := svc.AddTeamMember(context.Background(), teamManagerPerms, input)
	assert.ErrorIs(t, err, ErrInvalidPermission)
}

func TestTeamService_AddTeamMember_DuplicateEmail(t *testing.T) {
	repo := newFakeTeamRepo()
	svc := NewTeamService(repo, &fakeNotifier{})

	_, err := svc.AddTeamMember(context.Background(), teamManagerPerms, validAddMember())
	require.NoError(t, err)

	_, err = svc.AddTeamMember(context.Background(), teamManagerPerms, validAddMember())
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestTeamService_UpdatePermissions(t *testing.T) {
	repo := newFakeTeamRepo()
	member := repo.addUser(domain.UserTypeAdmin, domain.Permissions{domain.PermissionLocationManagement})
	svc := NewTeamService(repo, &fakeNotifier{})

	err := svc.UpdatePermissions(context.Background(), teamManagerPerms, member.ID,
		[]string{domain.PermissionTeamManagement},
		[]string{domain.PermissionLocationManagement},
	)
	require.NoError(t, err)

	assert.Equal(t, domain.Permissions{domain.PermissionTeamManagement}, repo.perms[member.ID])
}

func TestTeamService_UpdatePermissions_SuperAdminIsImmutable(t *testing.T) {
	repo := newFakeTeamRepo()
	root := repo.addUser(domain.UserTypeSuperAdmin, teamManagerPerms)
	svc := NewTeamService(repo, &fakeNotifier{})

	err := svc.UpdatePermissions(context.Background(), teamManagerPerms, root.ID,
		[]string{domain.PermissionLocationManagement}, nil)

	assert.ErrorIs(t, err, ErrUserImmutable)
}

func TestTeamService_UpdatePermissions_CannotRevokeUnheld(t *testing.T) {
	repo := newFakeTeamRepo()
	member := repo.addUser(domain.UserTypeAdmin, nil)
	svc := NewTeamService(repo, &fakeNotifier{})

	err := svc.UpdatePermissions(context.Background(), teamManagerPerms, member.ID,
		nil, []string{domain.PermissionLocationManagement})

	assert.ErrorIs(t, err, ErrPermissionNotHeld)
}

func TestTeamService_UpdatePermissions_CannotGrantHeld(t *testing.T) {
	repo := newFakeTeamRepo()
	member := repo.addUser(domain.UserTypeAdmin, domain.Permissions{domain.PermissionLocationManagement})
	svc := NewTeamService(repo, &fakeNotifier{})

	err := svc.UpdatePermissions(context.Background(), teamManagerPerms, member.ID,
		[]string{domain.PermissionLocationManagement}, nil)

	assert.ErrorIs(t, err, ErrPermissionAlreadyHeld)
}

func TestTeamService_RemoveTeamMember(t *testing.T) {
	repo := newFakeTeamRepo()
	member := repo.addUser(domain.UserTypeAdmin, nil)
	notifier := &fakeNotifier{}
	svc := NewTeamService(repo, notifier)

	err := svc.RemoveTeamMember(context.Background(), teamManagerPerms, member.ID)
	require.NoError(t, err)

	assert.Equal(t, []int64{member.ID}, repo.deleted)
	assert.Equal(t, []string{member.Email}, notifier.removalEmails)
}

func TestTeamService_RemoveTeamMember_SuperAdminIsImmutable(t *testing.T) {
	repo := newFakeTeamRepo()
	root := repo.addUser(domain.UserTypeSuperAdmin, teamManagerPerms)
	svc := NewTeamService(repo, &fakeNotifier{})

	err := svc.RemoveTeamMember(context.Background(), teamManagerPerms, root.ID)

	assert.ErrorIs(t, err, ErrUserImmutable)
	assert.Empty(t, repo.deleted)
}

func TestTeamService_ListTeamMembers(t *testing.T) {
	repo := newFakeTeamRepo()
	repo.addUser(domain.UserTypeAdmin, domain.Permissions{domain.PermissionLocationManagement})
	svc := NewTeamService(repo, &fakeNotifier{})

	members, total, err := svc.ListTeamMembers(context.Background(), teamManagerPerms, "", 1, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, members, 1)
	assert.Equal(t, domain.Permissions{domain.PermissionLocationManagement}, members[0].Permissions)
}
