package repository

import (
	"cowork/internal/domains/room/model"
	gDto "cowork/shared/dto"
)

func ByID(id int64) gDto.FilterGroup {
	return gDto.And(gDto.Eq(model.TableName, model.FieldID, id))
}
