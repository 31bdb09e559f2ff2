package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/talentgate/authcore/internal/auth/domain"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "recruiter", "hiring_manager"} {
		role, err := domain.ParseRole(s)
		require.NoError(t, err)
		require.True(t, role.Valid())
		require.Equal(t, s, role.String())
	}

	_, err := domain.ParseRole("superuser")
	require.Error(t, err)
}

func TestRolePermissions(t *testing.T) {
	t.Run("admin holds every permission", func(t *testing.T) {
		perms := domain.RoleAdmin.Permissions()
		require.Len(t, perms, 8)
		require.Contains(t, perms, domain.PermManageUsers)
		require.Contains(t, perms, domain.PermRevokeSessions)
	})

	t.Run("recruiter cannot administer", func(t *testing.T) {
		perms := domain.RoleRecruiter.Permissions()
		require.Contains(t, perms, domain.PermWriteProfiles)
		require.Contains(t, perms, domain.PermRunAnalyses)
		require.NotContains(t, perms, domain.PermManageUsers)
		require.NotContains(t, perms, domain.PermRevokeSessions)
	})

	t.Run("hiring manager is read only", func(t *testing.T) {
		perms := domain.RoleHiringManager.Permissions()
		require.ElementsMatch(t, []string{
			domain.PermReadProfiles,
			domain.PermReadSearches,
			domain.PermReadAnalyses,
		}, perms)
	})

	t.Run("unknown role grants nothing", func(t *testing.T) {
		require.Nil(t, domain.Role("superuser").Permissions())
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		perms := domain.RoleAdmin.Permissions()
		perms[0] = "tampered"
		require.NotContains(t, domain.RoleAdmin.Permissions(), "tampered")
	})
}
