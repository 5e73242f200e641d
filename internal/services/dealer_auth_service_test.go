package services_test

import (
	"testing"
	"time"

	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDealerAuth(t *testing.T) *services.DealerAuthService {
	t.Helper()
	auth, err := services.NewDealerAuthService("dealer2024", "test_jwt_secret")
	require.NoError(t, err)
	return auth
}

func TestDealerLoginAndLogout(t *testing.T) {
	auth := newDealerAuth(t)
	sess := services.NewSessionStore(time.Hour).Create()

	_, err := auth.Login(sess, "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.False(t, sess.Dealer().IsDealer)

	token, err := auth.Login(sess, "dealer2024")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, sess.Dealer().IsDealer)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "dealer", claims["role"])
	assert.Equal(t, sess.ID, claims["sid"])

	auth.Logout(sess)
	assert.False(t, sess.Dealer().IsDealer)
}

func TestDealerRestoreMarksFreshSession(t *testing.T) {
	auth := newDealerAuth(t)
	store := services.NewSessionStore(time.Hour)

	token, err := auth.Login(store.Create(), "dealer2024")
	require.NoError(t, err)

	fresh := store.Create()
	require.NoError(t, auth.Restore(fresh, token))
	assert.True(t, fresh.Dealer().IsDealer)

	other := store.Create()
	assert.Error(t, auth.Restore(other, "not-a-token"))
	assert.False(t, other.Dealer().IsDealer)
}

func TestDealerTokenFromAnotherSecretIsRejected(t *testing.T) {
	auth := newDealerAuth(t)
	foreign, err := services.NewDealerAuthService("dealer2024", "other_secret")
	require.NoError(t, err)

	token, err := foreign.Login(services.NewSessionStore(time.Hour).Create(), "dealer2024")
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}

func TestDealerAuthRequiresSecret(t *testing.T) {
	_, err := services.NewDealerAuthService("", "x")
	assert.Error(t, err)
}

func TestPricingPolicy(t *testing.T) {
	auth := newDealerAuth(t)
	sess := services.NewSessionStore(time.Hour).Create()

	assert.False(t, services.CanSeePrice(sess.Dealer()))
	assert.Nil(t, services.VisiblePrice(sess.Dealer(), 599))

	_, err := auth.Login(sess, "dealer2024")
	require.NoError(t, err)
	assert.True(t, services.CanSeePrice(sess.Dealer()))
	price := services.VisiblePrice(sess.Dealer(), 599)
	require.NotNil(t, price)
	assert.Equal(t, 599, *price)
}

func TestDealerLogoutRevokesProof(t *testing.T) {
	auth := newDealerAuth(t)
	store := services.NewSessionStore(time.Hour)
	sess := store.Create()

	token, err := auth.Login(sess, "dealer2024")
	require.NoError(t, err)

	other := store.Create()
	require.NoError(t, auth.Restore(other, token))
	require.True(t, other.Dealer().IsDealer)

	auth.Logout(sess)
	assert.False(t, sess.Dealer().IsDealer)

	assert.ErrorIs(t, auth.Restore(sess, token), services.ErrProofRevoked)
	assert.False(t, sess.Dealer().IsDealer)

	// Sessions that picked up the same proof lose it on their next request.
	assert.ErrorIs(t, auth.Restore(other, token), services.ErrProofRevoked)
	assert.False(t, other.Dealer().IsDealer)

	fresh, err := auth.Login(sess, "dealer2024")
	require.NoError(t, err)
	assert.True(t, sess.Dealer().IsDealer)
	assert.NotEqual(t, token, fresh)
	assert.NoError(t, auth.Restore(store.Create(), fresh))
}
