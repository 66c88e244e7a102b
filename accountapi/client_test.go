package accountapi_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexakey/nexakey/accountapi"
	"github.com/nexakey/nexakey/accountapi/apitest"
)

func newTestClient(t *testing.T) *accountapi.Client {
	t.Helper()
	srv := httptest.NewServer(apitest.New())
	t.Cleanup(srv.Close)
	return accountapi.New(srv.URL)
}

func TestClient_RegisterAndLogin(t *testing.T) {
	ctx := t.Context()
	client := newTestClient(t)

	res, err := client.Register(ctx, "user@example.com", "auth-hash-1", true)
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "user@example.com", res.User.Email)
	assert.True(t, res.User.BiometricEnabled)

	// Duplicate registration is rejected.
	_, err = client.Register(ctx, "user@example.com", "auth-hash-1", false)
	assert.ErrorIs(t, err, accountapi.ErrEmailTaken)

	// Login with the right hash succeeds.
	login, err := client.Login(ctx, "user@example.com", "auth-hash-1")
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)

	// Wrong hash and unknown email fail identically.
	_, err = client.Login(ctx, "user@example.com", "wrong-hash")
	assert.ErrorIs(t, err, accountapi.ErrInvalidCredentials)
	_, err = client.Login(ctx, "nobody@example.com", "auth-hash-1")
	assert.ErrorIs(t, err, accountapi.ErrInvalidCredentials)
}

func TestClient_VaultItemCRUD(t *testing.T) {
	ctx := t.Context()
	client := newTestClient(t)

	_, err := client.Register(ctx, "user@example.com", "auth-hash-1", false)
	require.NoError(t, err)

	created, err := client.CreateItem(ctx, "credential", "opaque-blob-1")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "credential", created.ItemType)
	assert.Equal(t, "opaque-blob-1", created.EncryptedData)
	assert.False(t, created.CreatedAt.IsZero())

	items, err := client.VaultItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)

	require.NoError(t, client.UpdateItem(ctx, created.ID, "opaque-blob-2"))
	items, err = client.VaultItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opaque-blob-2", items[0].EncryptedData)

	assert.ErrorIs(t, client.UpdateItem(ctx, "missing-id", "blob"), accountapi.ErrItemNotFound)

	require.NoError(t, client.DeleteItem(ctx, created.ID))
	items, err = client.VaultItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClient_RequiresToken(t *testing.T) {
	ctx := t.Context()
	client := newTestClient(t)

	_, err := client.VaultItems(ctx)
	assert.ErrorIs(t, err, accountapi.ErrUnauthorized)
}

func TestClient_ProfileCountsItems(t *testing.T) {
	ctx := t.Context()
	client := newTestClient(t)

	_, err := client.Register(ctx, "user@example.com", "auth-hash-1", false)
	require.NoError(t, err)

	_, err = client.CreateItem(ctx, "secure-note", "blob")
	require.NoError(t, err)

	profile, err := client.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.VaultItemsCount)
}
