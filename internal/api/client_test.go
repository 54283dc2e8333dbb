package api_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmdesk/internal/api"
	"github.com/mamadbah2/farmdesk/internal/api/apitest"
)

// tokenBox is a mutable TokenSource, standing in for the session store.
type tokenBox struct {
	mu    sync.Mutex
	token string
}

func (b *tokenBox) Token() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token
}

func (b *tokenBox) set(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = token
}

func newClient(t *testing.T, backend *apitest.Server, tokens api.TokenSource) *api.Client {
	t.Helper()
	return api.NewClient(api.Config{BaseURL: backend.URL, Timeout: 5 * time.Second}, tokens, nil)
}

func TestLoginThenAuthenticatedCall(t *testing.T) {
	backend := apitest.NewServer()
	defer backend.Close()

	tokens := &tokenBox{}
	client := newClient(t, backend, tokens)
	services := api.NewServices(client)

	user := backend.SeededUser()
	session, err := services.Auth.Login(context.Background(), api.LoginRequest{
		EmailOrUsername: user.Username,
		Password:        user.Password,
	})
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	assert.Equal(t, user.Username, session.User.Username)

	// Before the token is stored, protected endpoints must reject us.
	_, err = services.Supplies.List(context.Background(), api.ListQuery{Size: 10})
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))

	tokens.set(session.Token)
	_, err = services.Supplies.List(context.Background(), api.ListQuery{Size: 10})
	require.NoError(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	backend := apitest.NewServer()
	defer backend.Close()

	services := api.NewServices(newClient(t, backend, &tokenBox{}))
	_, err := services.Auth.Login(context.Background(), api.LoginRequest{
		EmailOrUsername: "amina",
		Password:        "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", api.UserMessage(err))
}

func TestEnvelopeErrorMessageSurfaces(t *testing.T) {
	backend := apitest.NewServer()
	defer backend.Close()

	token := backend.IssueToken()
	services := api.NewServices(newClient(t, backend, api.StaticToken(token)))

	backend.FailNext(422, "quantity must be positive")
	_, err := services.Sales.List(context.Background(), api.ListQuery{Size: 10})
	require.Error(t, err)
	assert.Equal(t, "quantity must be positive", api.UserMessage(err))
}

func TestNetworkFailureIsDistinguishable(t *testing.T) {
	backend := apitest.NewServer()
	url := backend.URL
	backend.Close()

	client := api.NewClient(api.Config{BaseURL: url, Timeout: time.Second}, api.StaticToken("x"), nil)
	services := api.NewServices(client)

	_, err := services.Supplies.List(context.Background(), api.ListQuery{Size: 10})
	require.Error(t, err)
	assert.True(t, api.IsNetworkError(err))
	assert.Equal(t, "Cannot reach the server", api.UserMessage(err))
}

func TestUnauthorizedHookFiresOnRevokedToken(t *testing.T) {
	backend := apitest.NewServer()
	defer backend.Close()

	token := backend.IssueToken()
	client := newClient(t, backend, api.StaticToken(token))

	var fired bool
	client.OnUnauthorized(func() { fired = true })

	services := api.NewServices(client)
	backend.RevokeToken(token)

	_, err := services.Supplies.List(context.Background(), api.ListQuery{Size: 10})
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.True(t, fired)
}

func TestUnauthorizedHookSkipsAuthEndpoints(t *testing.T) {
	backend := apitest.NewServer()
	defer backend.Close()

	client := newClient(t, backend, &tokenBox{})

	var fired bool
	client.OnUnauthorized(func() { fired = true })

	services := api.NewServices(client)
	_, err := services.Auth.Login(context.Background(), api.LoginRequest{
		EmailOrUsername: "amina",
		Password:        "wrong",
	})
	require.Error(t, err)
	assert.False(t, fired, "failed logins must not count as an expired session")
}

func TestForgotAndResetPassword(t *testing.T) {
	backend := apitest.NewServer()
	defer backend.Close()

	services := api.NewServices(newClient(t, backend, &tokenBox{}))
	ctx := context.Background()
	user := backend.SeededUser()

	require.NoError(t, services.Auth.ForgotPassword(ctx, user.Email))
	require.NoError(t, services.Auth.ResetPassword(ctx, "reset-"+user.ID, "new-password"))

	_, err := services.Auth.Login(ctx, api.LoginRequest{EmailOrUsername: user.Username, Password: user.Password})
	require.Error(t, err, "the old password must stop working")

	session, err := services.Auth.Login(ctx, api.LoginRequest{EmailOrUsername: user.Username, Password: "new-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
}
