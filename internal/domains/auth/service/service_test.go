package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"cowork/config"
	"cowork/infras/jwt"
	jwtMocks "cowork/infras/jwt/mocks"
	"cowork/infras/otel/mocks"
	"cowork/infras/postgres"
	"cowork/internal/domains/auth/model/dto"
	"cowork/internal/domains/auth/service"
	userMocks "cowork/internal/domains/user/mocks"
	userModel "cowork/internal/domains/user/model"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"
	"cowork/shared/password"
)

type fixture struct {
	svc   service.Auth
	users *userMocks.MockUser
	jwt   *jwtMocks.MockJWT
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	users := userMocks.NewMockUser(ctrl)
	tokens := jwtMocks.NewMockJWT(ctrl)

	return fixture{
		svc:   service.New(users, &config.Config{}, mocks.NewOtel(), tokens),
		users: users,
		jwt:   tokens,
	}
}

func storedUser(t *testing.T, plain string) userModel.User {
	t.Helper()

	hash, err := password.Hash(plain)
	require.NoError(t, err)

	return userModel.User{
		ID:          "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d",
		Name:        "Budi Santoso",
		Email:       "budi@example.com",
		PhoneNumber: "081234567890",
		Password:    hash,
		Level:       constant.RoleUser,
	}
}

func userContext(id string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleUser)
}

func TestAuthService_Register(t *testing.T) {
	req := dto.RegisterRequest{
		Name:        "Budi Santoso",
		Email:       " Budi@Example.com ",
		Password:    "rahasia123",
		PhoneNumber: "081234567890",
	}

	t.Run("creates a regular account", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
				assert.Equal(t, "budi@example.com", filter.Filters[0].(gDto.Filter).Value)

				return false, nil
			})
		f.users.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user userModel.User) error {
				assert.Equal(t, constant.RoleUser, user.Level)
				assert.NotEqual(t, "rahasia123", user.Password)
				assert.NoError(t, password.Verify("rahasia123", user.Password))

				return nil
			})

		res, err := f.svc.Register(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, service.MessageRegistered, res.Message)
		assert.NotEmpty(t, res.UserID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := f.svc.Register(context.Background(), req)

		require.EqualError(t, err, "Email already exists")
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("concurrent registration hits the unique index", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: postgres.UniqueViolation})

		_, err := f.svc.Register(context.Background(), req)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("insert failure", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		_, err := f.svc.Register(context.Background(), req)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	user := storedUser(t, "rahasia123")

	t.Run("returns tokens and profile", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		f.jwt.EXPECT().
			Issue(gomock.Any(), jwt.Identity{UserID: user.ID, Email: user.Email, Role: user.Level}).
			Return(&jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}, nil)
		f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: "BUDI@example.com", Password: "rahasia123"})

		require.NoError(t, err)
		assert.Equal(t, "access", res.AccessToken)
		assert.Equal(t, int64(900), res.ExpiresIn)
		assert.Equal(t, "081234567890", res.User.PhoneNumber)
	})

	t.Run("last login failure does not block", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		f.jwt.EXPECT().Issue(gomock.Any(), gomock.Any()).Return(&jwt.TokenPair{AccessToken: "access"}, nil)
		f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		_, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: user.Email, Password: "rahasia123"})
		assert.NoError(t, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		_, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "rahasia123"})

		require.EqualError(t, err, "User not found")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

		_, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: user.Email, Password: "salah"})

		require.EqualError(t, err, "Invalid password")
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("token failure", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		f.jwt.EXPECT().Issue(gomock.Any(), gomock.Any()).Return(nil, errors.New("signing failed"))

		_, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: user.Email, Password: "rahasia123"})
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("rotates tokens", func(t *testing.T) {
		f := newFixture(t)
		f.jwt.EXPECT().Refresh(gomock.Any(), "refresh").Return(&jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)

		res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})

		require.NoError(t, err)
		assert.Equal(t, "new-refresh", res.RefreshToken)
	})

	t.Run("invalid token", func(t *testing.T) {
		f := newFixture(t)
		f.jwt.EXPECT().Refresh(gomock.Any(), "expired").Return(nil, jwt.ErrExpiredToken)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "expired"})
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	user := storedUser(t, "rahasia123")

	t.Run("updates hash", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		f.users.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				hash, _ := fields[userModel.FieldPassword].(string)
				assert.NoError(t, password.Verify("rahasiabaru", hash))

				return nil
			})

		err := f.svc.ChangePassword(userContext(user.ID), dto.ChangePasswordRequest{CurrentPassword: "rahasia123", NewPassword: "rahasiabaru"})
		require.NoError(t, err)
	})

	t.Run("wrong current password", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

		err := f.svc.ChangePassword(userContext(user.ID), dto.ChangePasswordRequest{CurrentPassword: "salah", NewPassword: "rahasiabaru"})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("anonymous", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{CurrentPassword: "a", NewPassword: "rahasiabaru"})
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_Me(t *testing.T) {
	user := storedUser(t, "rahasia123")

	t.Run("profile", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

		res, err := f.svc.Me(userContext(user.ID))

		require.NoError(t, err)
		assert.Equal(t, user.Name, res.Name)
	})

	t.Run("account removed", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		_, err := f.svc.Me(userContext(user.ID))
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
