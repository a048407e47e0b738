package dto

import (
	"mime/multipart"
	"strings"

	"cowork/internal/domains/room/model"
	"cowork/shared"
	gDto "cowork/shared/dto"
	gModel "cowork/shared/model"
	"cowork/shared/timezone"
)

type CreateRoomRequest struct {
	RoomName    string                `json:"room_name"   validate:"notblank,max=100"`
	Price       int64                 `json:"price"       validate:"required,gt=0"`
	Description string                `json:"description" validate:"omitempty,max=1000"`
	Image       *multipart.FileHeader `json:"image"       validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	ImageFile   multipart.File        `json:"-"`
	Status      string                `json:"status"      validate:"omitempty,oneof=available unavailable"`
}

func (c *CreateRoomRequest) ToModel(user string, imageURL string) model.Room {
	status := c.Status
	if status == "" {
		status = model.StatusAvailable
	}

	now := timezone.Now()

	return model.Room{
		RoomName:    strings.TrimSpace(c.RoomName),
		Price:       c.Price,
		Description: c.Description,
		ImageURL:    imageURL,
		Status:      status,
		Metadata:    gModel.NewMetadata(user, now),
	}
}

// UpdateRoomRequest is a partial update, zero values are left untouched.
type UpdateRoomRequest struct {
	RoomName    string                `db:"room_name"   json:"room_name"   validate:"omitempty,max=100"`
	Price       int64                 `db:"price"       json:"price"       validate:"omitempty,gt=0"`
	Description string                `db:"description" json:"description" validate:"omitempty,max=1000"`
	Image       *multipart.FileHeader `json:"image"                         validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	ImageFile   multipart.File        `json:"-"`
	Status      string                `db:"status"      json:"status"      validate:"omitempty,oneof=available unavailable"`
}

func (u *UpdateRoomRequest) IsEmpty() bool {
	return u.RoomName == "" && u.Price == 0 && u.Description == "" && u.Image == nil && u.Status == ""
}

type RoomResponse struct {
	ID          int64  `json:"id"`
	RoomName    string `json:"room_name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Status      string `json:"status"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.RoomName = model.RoomName
	r.Price = model.Price
	r.Description = model.Description
	r.ImageURL = model.ImageURL
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
