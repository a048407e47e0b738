package helper

import (
	"context"
	"fmt"
	"strings"

	userRepo "cowork/internal/domains/user/repository"
	"cowork/shared"
	"cowork/shared/constant"
	"cowork/shared/failure"

	"github.com/rs/zerolog/log"
)

const promotedBy = "migrate"

// PromoteAdmin raises an existing account to the admin level. Registration only ever creates
// regular users, so this is how the first administrator is made.
func PromoteAdmin(ctx context.Context, users userRepo.User, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == constant.Empty {
		return failure.BadRequestFromString("email is required") // nolint:wrapcheck
	}

	filter := userRepo.ByEmail(email)

	exists, err := users.Exist(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if !exists {
		return failure.NotFound("User not found") // nolint:wrapcheck
	}

	fields := shared.TransformFields(struct {
		Level string `db:"level"`
	}{Level: constant.RoleAdmin}, promotedBy)

	if err := users.Update(ctx, fields, filter); err != nil {
		return fmt.Errorf("failed to promote user: %w", err)
	}

	log.Info().Str("email", email).Msg("User promoted to admin")

	return nil
}
