package repository

import (
	"cowork/internal/domains/payment/model"
	gDto "cowork/shared/dto"
)

func ByID(id int64) gDto.FilterGroup {
	return gDto.And(gDto.Eq(model.TableName, model.FieldID, id))
}

func ByIDs(ids []int64) gDto.FilterGroup {
	return gDto.And(gDto.Filter{Table: model.TableName, Field: model.FieldID, Value: ids, Operator: gDto.FilterOperatorIn})
}
