package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborworks/cms/internal/admin/ports"
	authzdomain "github.com/harborworks/cms/internal/authz/domain"
	"github.com/harborworks/cms/internal/authz/permission"
	authzports "github.com/harborworks/cms/internal/authz/ports"
	"github.com/harborworks/cms/internal/platform/apperror"
)

// ===== Fakes =====

type fakeProfileRepo struct {
	profiles  map[uuid.UUID]*authzdomain.UserProfile
	createErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*authzdomain.UserProfile)}
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*authzdomain.UserProfile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, authzports.ErrProfileNotFound
	}
	return profile, nil
}

func (f *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*authzdomain.UserProfile, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, authzports.ErrProfileNotFound
}

func (f *fakeProfileRepo) List(_ context.Context, includeInactive bool, _, _ int) ([]*authzdomain.UserProfile, error) {
	var result []*authzdomain.UserProfile
	for _, p := range f.profiles {
		if p.IsActive || includeInactive {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakeProfileRepo) ListByRole(_ context.Context, role permission.RoleID) ([]*authzdomain.UserProfile, error) {
	var result []*authzdomain.UserProfile
	for _, p := range f.profiles {
		if p.Role == role {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakeProfileRepo) Create(_ context.Context, profile *authzdomain.UserProfile) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, p := range f.profiles {
		if p.Email == profile.Email {
			return authzports.ErrDuplicateEmail
		}
	}
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeProfileRepo) Update(_ context.Context, profile *authzdomain.UserProfile) error {
	if _, ok := f.profiles[profile.UserID]; !ok {
		return authzports.ErrProfileNotFound
	}
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeProfileRepo) CountActiveByRole(_ context.Context, role permission.RoleID) (int64, error) {
	var count int64
	for _, p := range f.profiles {
		if p.IsActive && p.Role == role {
			count++
		}
	}
	return count, nil
}

type fakeGroupRepo struct {
	groups      map[uuid.UUID]*authzdomain.PermissionGroup
	createCalls int
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[uuid.UUID]*authzdomain.PermissionGroup)}
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id uuid.UUID) (*authzdomain.PermissionGroup, error) {
	group, ok := f.groups[id]
	if !ok {
		return nil, authzports.ErrGroupNotFound
	}
	return group, nil
}

func (f *fakeGroupRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*authzdomain.PermissionGroup, error) {
	var result []*authzdomain.PermissionGroup
	for _, id := range ids {
		if g, ok := f.groups[id]; ok {
			result = append(result, g)
		}
	}
	return result, nil
}

func (f *fakeGroupRepo) List(_ context.Context) ([]*authzdomain.PermissionGroup, error) {
	var result []*authzdomain.PermissionGroup
	for _, g := range f.groups {
		result = append(result, g)
	}
	return result, nil
}

func (f *fakeGroupRepo) Create(_ context.Context, group *authzdomain.PermissionGroup) error {
	f.createCalls++
	f.groups[group.ID] = group
	return nil
}

func (f *fakeGroupRepo) Update(_ context.Context, group *authzdomain.PermissionGroup) error {
	if _, ok := f.groups[group.ID]; !ok {
		return authzports.ErrGroupNotFound
	}
	f.groups[group.ID] = group
	return nil
}

func (f *fakeGroupRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.groups, id)
	return nil
}

// fakeIdentity counts Register calls so tests can assert that
// validation failures never reach the external collaborator
type fakeIdentity struct {
	emails        map[string]uuid.UUID
	disabled      map[uuid.UUID]bool
	registerCalls int
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		emails:   make(map[string]uuid.UUID),
		disabled: make(map[uuid.UUID]bool),
	}
}

func (f *fakeIdentity) Register(_ context.Context, email, _ string) (uuid.UUID, error) {
	f.registerCalls++
	if _, taken := f.emails[email]; taken {
		return uuid.Nil, ports.ErrIdentityExists
	}
	id := uuid.New()
	f.emails[email] = id
	return id, nil
}

func (f *fakeIdentity) Disable(_ context.Context, userID uuid.UUID) error {
	f.disabled[userID] = true
	return nil
}

func (f *fakeIdentity) Enable(_ context.Context, userID uuid.UUID) error {
	delete(f.disabled, userID)
	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(_ context.Context, _ string, _ ...any) {}
func (noopLogger) Info(_ context.Context, _ string, _ ...any)  {}
func (noopLogger) Warn(_ context.Context, _ string, _ ...any)  {}
func (noopLogger) Error(_ context.Context, _ string, _ ...any) {}

// ===== Fixture =====

type fixture struct {
	service  *AdminService
	profiles *fakeProfileRepo
	groups   *fakeGroupRepo
	identity *fakeIdentity

	superAdmin uuid.UUID
	editor     uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	profiles := newFakeProfileRepo()
	groups := newFakeGroupRepo()
	identity := newFakeIdentity()

	fx := &fixture{
		service:  NewAdminService(profiles, groups, identity, noopLogger{}),
		profiles: profiles,
		groups:   groups,
		identity: identity,
	}

	admin, err := authzdomain.NewUserProfile(uuid.New(), "root@example.org", "Root", permission.RoleSuperAdmin)
	require.NoError(t, err)
	require.NoError(t, profiles.Create(context.Background(), admin))
	fx.superAdmin = admin.UserID

	editor, err := authzdomain.NewUserProfile(uuid.New(), "editor@example.org", "Editor", permission.RoleEditor)
	require.NoError(t, err)
	require.NoError(t, profiles.Create(context.Background(), editor))
	fx.editor = editor.UserID

	return fx
}

var validUser = CreateUserParams{
	Email:     "new@example.org",
	Password:  "Str0ngPass",
	FirstName: "New",
	LastName:  "User",
	Role:      "author",
}

// ===== Access control =====

func TestOperationsRequireSuperAdmin(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.service.CreateUser(ctx, fx.editor, validUser)
	assert.ErrorIs(t, err, ErrSuperAdminRequired)

	_, err = fx.service.GetSystemStats(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSuperAdminRequired)

	err = fx.service.AssignPermissions(ctx, fx.editor, PermissionAssignment{})
	assert.ErrorIs(t, err, ErrSuperAdminRequired)
}

func TestDeactivatedSuperAdminLosesAccess(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	profile, err := fx.profiles.GetByUserID(ctx, fx.superAdmin)
	require.NoError(t, err)
	profile.Deactivate()

	_, err = fx.service.ListUsers(ctx, fx.superAdmin, false, 0, 0)
	assert.ErrorIs(t, err, ErrSuperAdminRequired)
}

// ===== User management =====

func TestCreateUser(t *testing.T) {
	fx := newFixture(t)

	profile, err := fx.service.CreateUser(context.Background(), fx.superAdmin, validUser)
	require.NoError(t, err)
	assert.Equal(t, permission.RoleAuthor, profile.Role)
	assert.False(t, profile.IsSuperAdmin)
	assert.True(t, profile.IsActive)
	assert.Equal(t, "New User", profile.DisplayName)
}

func TestCreateUserValidationFailsBeforeExternalCalls(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.service.CreateUser(context.Background(), fx.superAdmin, CreateUserParams{
		Email:     "bad-email",
		Password:  "weak",
		FirstName: "A",
		LastName:  "B",
		Role:      "author",
	})
	require.ErrorIs(t, err, ErrValidationFailed)

	// Both the email and the password problem are reported
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	details, ok := appErr.Details.(string)
	require.True(t, ok)
	assert.Contains(t, details, "Email")
	assert.Contains(t, details, "Password")

	assert.Zero(t, fx.identity.registerCalls, "validation failure must not reach the identity provider")
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	fx := newFixture(t)

	params := validUser
	params.Role = "warlord"
	_, err := fx.service.CreateUser(context.Background(), fx.superAdmin, params)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Zero(t, fx.identity.registerCalls)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.service.CreateUser(ctx, fx.superAdmin, validUser)
	require.NoError(t, err)

	_, err = fx.service.CreateUser(ctx, fx.superAdmin, validUser)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateUserProfileFailureLeavesIdentityAlone(t *testing.T) {
	fx := newFixture(t)
	fx.profiles.createErr = errors.New("profile store down")

	_, err := fx.service.CreateUser(context.Background(), fx.superAdmin, validUser)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInternalError, appErr.Code)

	// The orphaned identity is reported, not rolled back
	assert.Equal(t, 1, fx.identity.registerCalls)
	assert.Empty(t, fx.identity.disabled)
}

func TestCreateUserRejectsSingleCharacterNames(t *testing.T) {
	fx := newFixture(t)

	params := validUser
	params.FirstName = "A"
	_, err := fx.service.CreateUser(context.Background(), fx.superAdmin, params)
	require.ErrorIs(t, err, ErrValidationFailed)

	params = validUser
	params.LastName = "B"
	_, err = fx.service.CreateUser(context.Background(), fx.superAdmin, params)
	require.ErrorIs(t, err, ErrValidationFailed)

	assert.Zero(t, fx.identity.registerCalls)
}

func TestDeleteUserSoftDeletes(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.service.DeleteUser(ctx, fx.superAdmin, fx.editor))

	profile, err := fx.profiles.GetByUserID(ctx, fx.editor)
	require.NoError(t, err)
	assert.False(t, profile.IsActive)
	assert.True(t, fx.identity.disabled[fx.editor])
}

func TestDeleteSuperAdminIsProtected(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	err := fx.service.DeleteUser(ctx, fx.superAdmin, fx.superAdmin)
	assert.ErrorIs(t, err, ErrProtectedEntity)

	profile, lookupErr := fx.profiles.GetByUserID(ctx, fx.superAdmin)
	require.NoError(t, lookupErr)
	assert.True(t, profile.IsActive)
}

func TestChangeUserRole(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	profile, err := fx.service.ChangeUserRole(ctx, fx.superAdmin, fx.editor, permission.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, permission.RoleAdmin, profile.Role)

	_, err = fx.service.ChangeUserRole(ctx, fx.superAdmin, fx.editor, "warlord")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

// ===== Groups =====

func TestCreateAndDeleteGroup(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	group, err := fx.service.CreateGroup(ctx, fx.superAdmin, CreateGroupParams{
		Name:        "Photographers",
		Description: "Event photographers with upload rights",
		Permissions: []string{"media.upload"},
	})
	require.NoError(t, err)
	assert.True(t, group.IsActive)
	assert.True(t, group.Grants(permission.MediaUpload))
	assert.Equal(t, fx.superAdmin, group.CreatedBy)

	stored, err := fx.groups.GetByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, fx.superAdmin, stored.CreatedBy)

	require.NoError(t, fx.service.DeleteGroup(ctx, fx.superAdmin, group.ID))
	stored, err = fx.groups.GetByID(ctx, group.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestCreateGroupValidation(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.service.CreateGroup(ctx, fx.superAdmin, CreateGroupParams{
		Name:        "ab",
		Description: "too short",
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeValidationFailed, appErr.Code)
	assert.Equal(t, 0, fx.groups.createCalls)
}

func TestGroupMembershipIsIdempotent(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	group, err := fx.service.CreateGroup(ctx, fx.superAdmin, CreateGroupParams{
		Name:        "Reviewers",
		Description: "Editorial review volunteers",
		Permissions: []string{"content.approve_review"},
	})
	require.NoError(t, err)

	require.NoError(t, fx.service.AddGroupMember(ctx, fx.superAdmin, group.ID, fx.editor))
	require.NoError(t, fx.service.AddGroupMember(ctx, fx.superAdmin, group.ID, fx.editor))

	profile, err := fx.profiles.GetByUserID(ctx, fx.editor)
	require.NoError(t, err)
	assert.Len(t, profile.GroupIDs, 1)

	require.NoError(t, fx.service.RemoveGroupMember(ctx, fx.superAdmin, group.ID, fx.editor))
	require.NoError(t, fx.service.RemoveGroupMember(ctx, fx.superAdmin, group.ID, fx.editor))
}

// ===== Permission assignment =====

func TestAssignPermissionsTargetValidation(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	userID := fx.editor
	groupID := uuid.New()

	err := fx.service.AssignPermissions(ctx, fx.superAdmin, PermissionAssignment{
		Action: AssignmentAdd, Permissions: []string{"media.upload"},
	})
	assert.ErrorIs(t, err, ErrInvalidAssignment)

	err = fx.service.AssignPermissions(ctx, fx.superAdmin, PermissionAssignment{
		UserID: &userID, GroupID: &groupID,
		Action: AssignmentAdd, Permissions: []string{"media.upload"},
	})
	assert.ErrorIs(t, err, ErrInvalidAssignment)
}

func TestAssignPermissionsRejectsBadTokens(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	userID := fx.editor

	err := fx.service.AssignPermissions(ctx, fx.superAdmin, PermissionAssignment{
		UserID: &userID, Action: AssignmentAdd, Permissions: []string{"  "},
	})
	assert.ErrorIs(t, err, ErrInvalidAssignment)

	err = fx.service.AssignPermissions(ctx, fx.superAdmin, PermissionAssignment{
		UserID: &userID, Action: AssignmentAdd, Permissions: []string{"content.teleport"},
	})
	assert.ErrorIs(t, err, ErrInvalidAssignment)

	err = fx.service.AssignPermissions(ctx, fx.superAdmin, PermissionAssignment{
		UserID: &userID, Action: "merge", Permissions: []string{"media.upload"},
	})
	assert.ErrorIs(t, err, ErrInvalidAssignment)
}

func TestAssignPermissionsToUser(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	userID := fx.editor

	// Add is idempotent
	for i := 0; i < 2; i++ {
		require.NoError(t, fx.service.AssignPermissions(ctx, fx.superAdmin, PermissionAssignment{
			UserID: &userID, Action: AssignmentAdd,
			Permissions: []string{"media.upload", "stats.view"},
		}))
	}
	profile, _ := fx.profiles.GetByUserID(ctx, userID)
	assert.Len(t, profile.CustomPermissions, 2)

	// Remove filters; removing an unheld permission is a no-op
	require.NoError(t, fx.service.AssignPermissions(ctx, fx.superAdmin, PermissionAssignment{
		UserID: &userID, Action: AssignmentRemove,
		Permissions: []string{"stats.view", "audit.view"},
	}))
	profile, _ = fx.profiles.GetByUserID(ctx, userID)
	assert.ElementsMatch(t, []permission.Permission{permission.MediaUpload}, profile.CustomPermissions)

	// Replace discards the old set
	require.NoError(t, fx.service.AssignPermissions(ctx, fx.superAdmin, PermissionAssignment{
		UserID: &userID, Action: AssignmentReplace,
		Permissions: []string{"audit.view"},
	}))
	profile, _ = fx.profiles.GetByUserID(ctx, userID)
	assert.ElementsMatch(t, []permission.Permission{permission.AuditView}, profile.CustomPermissions)
}

func TestAssignPermissionsToGroup(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	group, err := fx.service.CreateGroup(ctx, fx.superAdmin, CreateGroupParams{
		Name:        "Analysts",
		Description: "Reporting and statistics access",
		Permissions: []string{"stats.view"},
	})
	require.NoError(t, err)
	groupID := group.ID

	require.NoError(t, fx.service.AssignPermissions(ctx, fx.superAdmin, PermissionAssignment{
		GroupID: &groupID, Action: AssignmentAdd,
		Permissions: []string{"stats.view", "audit.view"},
	}))
	stored, _ := fx.groups.GetByID(ctx, groupID)
	assert.Len(t, stored.Permissions, 2)

	require.NoError(t, fx.service.AssignPermissions(ctx, fx.superAdmin, PermissionAssignment{
		GroupID: &groupID, Action: AssignmentReplace,
		Permissions: []string{"stats.view"},
	}))
	stored, _ = fx.groups.GetByID(ctx, groupID)
	assert.ElementsMatch(t, []permission.Permission{permission.StatsView}, stored.Permissions)
}

// ===== Reporting and bootstrap =====

func TestGetSystemStats(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.service.DeleteUser(ctx, fx.superAdmin, fx.editor))
	_, err := fx.service.CreateGroup(ctx, fx.superAdmin, CreateGroupParams{
		Name:        "Volunteers",
		Description: "General volunteer coordination",
		Permissions: []string{"media.upload"},
	})
	require.NoError(t, err)

	stats, err := fx.service.GetSystemStats(ctx, fx.superAdmin)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.ActiveUsers)
	assert.Equal(t, 1, stats.TotalGroups)
	assert.Equal(t, int64(1), stats.SuperAdminCount)
}

func TestEnsureDefaultSuperAdminIsIdempotent(t *testing.T) {
	profiles := newFakeProfileRepo()
	groups := newFakeGroupRepo()
	identity := newFakeIdentity()
	service := NewAdminService(profiles, groups, identity, noopLogger{})
	ctx := context.Background()

	require.NoError(t, service.EnsureDefaultSuperAdmin(ctx, "root@example.org", "Bootstrap1"))
	require.NoError(t, service.EnsureDefaultSuperAdmin(ctx, "root@example.org", "Bootstrap1"))

	count, err := profiles.CountActiveByRole(ctx, permission.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 1, identity.registerCalls)
}

func TestEnsureDefaultSuperAdminSkipsWhenOneExists(t *testing.T) {
	fx := newFixture(t)

	require.NoError(t, fx.service.EnsureDefaultSuperAdmin(context.Background(), "other@example.org", "Bootstrap1"))
	assert.Zero(t, fx.identity.registerCalls)
}
