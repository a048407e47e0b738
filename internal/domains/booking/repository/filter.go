package repository

import (
	"cowork/internal/domains/booking/model"
	gDto "cowork/shared/dto"
)

func ByID(id int64) gDto.FilterGroup {
	return gDto.And(gDto.Eq(model.TableName, model.FieldID, id))
}

// ByRoom matches every booking ever made for the room, whatever its status.
func ByRoom(roomID int64) gDto.FilterGroup {
	return gDto.And(gDto.Eq(model.TableName, model.FieldRoomID, roomID))
}

func ByUser(userID string) gDto.FilterGroup {
	return gDto.And(gDto.Eq(model.TableName, model.FieldUserID, userID))
}

func ByIDs(ids []int64) gDto.FilterGroup {
	return gDto.And(gDto.Filter{Table: model.TableName, Field: model.FieldID, Value: ids, Operator: gDto.FilterOperatorIn})
}
