package repository

import (
	"strings"

	"cowork/internal/domains/user/model"
	gDto "cowork/shared/dto"
)

func ByID(id string) gDto.FilterGroup {
	return gDto.And(gDto.Eq(model.TableName, model.FieldID, id))
}

// ByEmail matches the stored form of email, which is trimmed and lower case.
func ByEmail(email string) gDto.FilterGroup {
	return gDto.And(gDto.Eq(model.TableName, model.FieldEmail, strings.ToLower(strings.TrimSpace(email))))
}
