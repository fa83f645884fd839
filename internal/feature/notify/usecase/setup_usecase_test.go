package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news_notify/internal/domain"
	"news_notify/internal/domain/entity"
)

type mockUserRepository struct {
	FindByIDFunc          func(ctx context.Context, id string) (*entity.User, error)
	FindByNotifyStateFunc func(ctx context.Context, state string) (*entity.User, error)

	Tokens []*string
	States []*string
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockUserRepository) FindByNotifyState(ctx context.Context, state string) (*entity.User, error) {
	return m.FindByNotifyStateFunc(ctx, state)
}

func (m *mockUserRepository) UpdateNotifyToken(ctx context.Context, userID string, token *string) error {
	m.Tokens = append(m.Tokens, token)
	return nil
}

func (m *mockUserRepository) UpdateNotifyState(ctx context.Context, userID string, state *string) error {
	m.States = append(m.States, state)
	return nil
}

type mockChannel struct {
	SendFunc func(ctx context.Context, credential, message string) error
	Sent     []string
}

func (m *mockChannel) Send(ctx context.Context, credential, message string) error {
	m.Sent = append(m.Sent, message)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, credential, message)
	}
	return nil
}

type mockTokenExchanger struct {
	ExchangeCodeFunc func(ctx context.Context, code string) (string, error)
	Revoked          []string
}

func (m *mockTokenExchanger) AuthorizeURL(state string) string {
	return "https://auth.example.com/authorize?state=" + state
}

func (m *mockTokenExchanger) ExchangeCode(ctx context.Context, code string) (string, error) {
	return m.ExchangeCodeFunc(ctx, code)
}

func (m *mockTokenExchanger) Revoke(ctx context.Context, credential string) error {
	m.Revoked = append(m.Revoked, credential)
	return nil
}

func strPtr(s string) *string { return &s }

func TestSetupUsecase_HasCredential(t *testing.T) {
	t.Parallel()
	users := &mockUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
			if id == "configured" {
				return &entity.User{ID: id, NotifyToken: strPtr("tok")}, nil
			}
			return &entity.User{ID: id}, nil
		},
	}
	su := NewSetupUsecase(users, &mockChannel{}, nil, "")

	has, err := su.HasCredential(context.Background(), "configured")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = su.HasCredential(context.Background(), "fresh")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSetupUsecase_BeginTokenExchange(t *testing.T) {
	t.Parallel()

	t.Run("stores a state and returns the authorize url", func(t *testing.T) {
		t.Parallel()
		users := &mockUserRepository{}
		su := NewSetupUsecase(users, &mockChannel{}, &mockTokenExchanger{}, "")

		url, err := su.BeginTokenExchange(context.Background(), "U1")
		require.NoError(t, err)
		require.Len(t, users.States, 1)
		require.NotNil(t, users.States[0])
		assert.Equal(t, "https://auth.example.com/authorize?state="+*users.States[0], url)
	})

	t.Run("fails when no exchanger is configured", func(t *testing.T) {
		t.Parallel()
		su := NewSetupUsecase(&mockUserRepository{}, &mockChannel{}, nil, "")
		_, err := su.BeginTokenExchange(context.Background(), "U1")
		assert.Error(t, err)
	})
}

func TestSetupUsecase_CompleteTokenExchange(t *testing.T) {
	t.Parallel()

	t.Run("exchanges, saves token, clears state and confirms", func(t *testing.T) {
		t.Parallel()
		users := &mockUserRepository{
			FindByNotifyStateFunc: func(ctx context.Context, state string) (*entity.User, error) {
				assert.Equal(t, "state-1", state)
				return &entity.User{ID: "U1", NotifyState: strPtr("state-1")}, nil
			},
		}
		channel := &mockChannel{}
		exchanger := &mockTokenExchanger{
			ExchangeCodeFunc: func(ctx context.Context, code string) (string, error) {
				assert.Equal(t, "code-1", code)
				return "tok-1", nil
			},
		}
		su := NewSetupUsecase(users, channel, exchanger, "https://line.me/R/ti/p/@bot")

		user, err := su.CompleteTokenExchange(context.Background(), "state-1", "code-1")
		require.NoError(t, err)
		assert.Equal(t, "U1", user.ID)
		require.NotNil(t, user.NotifyToken)
		assert.Equal(t, "tok-1", *user.NotifyToken)
		assert.Nil(t, user.NotifyState)

		require.Len(t, users.Tokens, 1)
		assert.Equal(t, "tok-1", *users.Tokens[0])
		require.Len(t, users.States, 1)
		assert.Nil(t, users.States[0])

		require.Len(t, channel.Sent, 1)
		assert.Contains(t, channel.Sent[0], "推播設定成功")
		assert.Contains(t, channel.Sent[0], "https://line.me/R/ti/p/@bot")
	})

	t.Run("unknown state is rejected", func(t *testing.T) {
		t.Parallel()
		users := &mockUserRepository{
			FindByNotifyStateFunc: func(ctx context.Context, state string) (*entity.User, error) {
				return nil, domain.ErrUserNotFound
			},
		}
		su := NewSetupUsecase(users, &mockChannel{}, &mockTokenExchanger{}, "")

		_, err := su.CompleteTokenExchange(context.Background(), "forged", "code")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.Empty(t, users.Tokens)
	})

	t.Run("confirmation failure does not roll back the exchange", func(t *testing.T) {
		t.Parallel()
		users := &mockUserRepository{
			FindByNotifyStateFunc: func(ctx context.Context, state string) (*entity.User, error) {
				return &entity.User{ID: "U1"}, nil
			},
		}
		channel := &mockChannel{
			SendFunc: func(ctx context.Context, credential, message string) error {
				return errors.New("destination unreachable")
			},
		}
		exchanger := &mockTokenExchanger{
			ExchangeCodeFunc: func(ctx context.Context, code string) (string, error) {
				return "tok-1", nil
			},
		}
		su := NewSetupUsecase(users, channel, exchanger, "")

		user, err := su.CompleteTokenExchange(context.Background(), "state-1", "code-1")
		require.NoError(t, err)
		assert.Equal(t, "tok-1", *user.NotifyToken)
	})
}

func TestSetupUsecase_SendTest(t *testing.T) {
	t.Parallel()

	t.Run("delivers to the stored credential", func(t *testing.T) {
		t.Parallel()
		users := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
				return &entity.User{ID: id, NotifyToken: strPtr("tok")}, nil
			},
		}
		channel := &mockChannel{}
		su := NewSetupUsecase(users, channel, nil, "")

		require.NoError(t, su.SendTest(context.Background(), "U1"))
		assert.Equal(t, []string{"這是一則測試訊息"}, channel.Sent)
	})

	t.Run("missing credential is a typed error", func(t *testing.T) {
		t.Parallel()
		users := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
				return &entity.User{ID: id}, nil
			},
		}
		su := NewSetupUsecase(users, &mockChannel{}, nil, "")
		assert.ErrorIs(t, su.SendTest(context.Background(), "U1"), domain.ErrNoCredential)
	})
}

func TestSetupUsecase_Reset(t *testing.T) {
	t.Parallel()

	t.Run("revokes and clears token and state", func(t *testing.T) {
		t.Parallel()
		users := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
				return &entity.User{ID: id, NotifyToken: strPtr("tok")}, nil
			},
		}
		exchanger := &mockTokenExchanger{}
		su := NewSetupUsecase(users, &mockChannel{}, exchanger, "")

		require.NoError(t, su.Reset(context.Background(), "U1"))
		assert.Equal(t, []string{"tok"}, exchanger.Revoked)
		require.Len(t, users.Tokens, 1)
		assert.Nil(t, users.Tokens[0])
		require.Len(t, users.States, 1)
		assert.Nil(t, users.States[0])
	})

	t.Run("webhook transport clears without revocation", func(t *testing.T) {
		t.Parallel()
		users := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
				return &entity.User{ID: id, NotifyToken: strPtr("https://hook.example.com")}, nil
			},
		}
		su := NewSetupUsecase(users, &mockChannel{}, nil, "")
		require.NoError(t, su.Reset(context.Background(), "U1"))
		require.Len(t, users.Tokens, 1)
		assert.Nil(t, users.Tokens[0])
	})
}

func TestSetupUsecase_SetWebhookURL(t *testing.T) {
	t.Parallel()
	users := &mockUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
			return &entity.User{ID: id}, nil
		},
	}
	su := NewSetupUsecase(users, &mockChannel{}, nil, "")

	require.NoError(t, su.SetWebhookURL(context.Background(), "U1", "https://hook.example.com"))
	require.Len(t, users.Tokens, 1)
	assert.Equal(t, "https://hook.example.com", *users.Tokens[0])
}
