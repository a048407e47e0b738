package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cowork/shared/password"
)

func TestMain(m *testing.M) {
	password.Cost = bcrypt.MinCost

	m.Run()
}

func TestHash(t *testing.T) {
	tests := []struct {
		name    string
		plain   string
		wantErr error
	}{
		{name: "ascii", plain: "rahasia123"},
		{name: "unicode", plain: "kata-sandi-ñ-東京"},
		{name: "exactly 72 bytes", plain: strings.Repeat("a", 72)},
		{name: "empty", plain: "", wantErr: password.ErrEmptyPassword},
		{name: "73 bytes", plain: strings.Repeat("a", 73), wantErr: password.ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.plain)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.plain, hash)
			assert.NoError(t, password.Verify(tt.plain, hash))
		})
	}
}

func TestHash_Salted(t *testing.T) {
	first, err := password.Hash("rahasia123")
	require.NoError(t, err)

	second, err := password.Hash("rahasia123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("rahasia123")
	require.NoError(t, err)

	tests := []struct {
		name  string
		plain string
		hash  string
	}{
		{name: "wrong password", plain: "rahasia124", hash: hash},
		{name: "case differs", plain: "RAHASIA123", hash: hash},
		{name: "empty password", plain: "", hash: hash},
		{name: "empty hash", plain: "rahasia123", hash: ""},
		{name: "malformed hash", plain: "rahasia123", hash: "$2a$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, password.Verify(tt.plain, tt.hash), password.ErrInvalidPassword)
		})
	}
}
