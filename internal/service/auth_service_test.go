package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/feira/pkg/api"
)

func TestAuthFlow(t *testing.T) {
	env := setupTestServer(t)
	env.beneficiary("alice@example.com", "100.00", false)
	client := env.auth()
	ctx := context.Background()

	reg, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "alice@example.com", DisplayName: "Alice", Password: "correct horse",
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Msg.Token)
	assert.Equal(t, "alice@example.com", reg.Msg.User.Email)

	t.Run("duplicate registration", func(t *testing.T) {
		_, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "alice@example.com", DisplayName: "Alice", Password: "correct horse",
		}))
		assert.Equal(t, connect.CodeAlreadyExists, connect.CodeOf(err))
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "bob@example.com", DisplayName: "Bob", Password: "short",
		}))
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := client.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "alice@example.com", Password: "nope nope"}))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	login, err := client.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "alice@example.com", Password: "correct horse"}))
	require.NoError(t, err)

	t.Run("current user with profile", func(t *testing.T) {
		req := connect.NewRequest(&api.GetCurrentUserRequest{})
		req.Header().Set("Authorization", "Bearer "+login.Msg.Token)
		me, err := client.GetCurrentUser(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, reg.Msg.User.ID, me.Msg.User.ID)
		assert.Equal(t, "Alice", me.Msg.User.DisplayName)
		require.NotNil(t, me.Msg.Beneficiary)
		assert.Equal(t, "100.00", me.Msg.Beneficiary.MonthlyStipend)
	})

	t.Run("current user without token", func(t *testing.T) {
		_, err := client.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})
}
