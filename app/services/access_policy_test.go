package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/ordermgmt/app/models"
	"github.com/shashiranjanraj/ordermgmt/app/services"
	"github.com/shashiranjanraj/ordermgmt/pkg/apperr"
)

func TestResolveUsesStoredRole(t *testing.T) {
	f := newFixture(t)

	// A forged ADMIN claim does not elevate a USER account.
	p, err := f.policy.Resolve(f.ctx, claimsFor("alice", "ADMIN"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, p.Role)
	assert.Equal(t, f.alice.ID, p.ID)
}

func TestResolveRejects(t *testing.T) {
	f := newFixture(t)

	_, err := f.policy.Resolve(f.ctx, nil)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = f.policy.Resolve(f.ctx, claimsFor("ghost", "USER"))
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestAuthorize(t *testing.T) {
	admin := services.Principal{ID: "a", Role: models.RoleAdmin}
	user := services.Principal{ID: "u", Role: models.RoleUser}

	assert.NoError(t, services.Authorize(admin, "anyone"))
	assert.NoError(t, services.Authorize(user, "u"))
	assert.ErrorIs(t, services.Authorize(user, "someone-else"), apperr.ErrAccessDenied)
	assert.ErrorIs(t, services.Authorize(services.Principal{}, ""), apperr.ErrAccessDenied)
}
