package room

import (
	"mime/multipart"
	"net/http"
	"strings"

	"cowork/infras/otel"
	"cowork/internal/domains/room/model"
	"cowork/internal/domains/room/model/dto"
	"cowork/internal/domains/room/service"
	"cowork/internal/handlers/web"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"
	"cowork/shared/validator"
	"cowork/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const (
	formRoomName    = "room_name"
	formPrice       = "price"
	formDescription = "description"
	formStatus      = "status"
	formImage       = "image"

	messageInvalidID    = "Invalid room ID"
	messageInvalidPrice = "Invalid price"
)

type Handler struct {
	service service.Room
	otel    otel.Otel
}

func New(service service.Room, otel otel.Otel) Handler {
	return Handler{service: service, otel: otel}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(r chi.Router) {
		r.Post("/", handler.CreateRoom)
		r.Get("/", handler.GetRooms)
		r.Get("/{id}", handler.GetRoomByID)
		r.Patch("/{id}", handler.UpdateRoom)
		r.Delete("/{id}", handler.DeleteRoom)
	})
}

type createRoomResponse struct {
	ID int64 `json:"id"`
}

type deleteRoomResponse struct {
	Message     string `json:"message"`
	SoftDeleted bool   `json:"soft_deleted"`
}

// roomForm is the multipart body shared by create and update. The caller closes file.
type roomForm struct {
	name        string
	description string
	status      string
	price       int64
	header      *multipart.FileHeader
	file        multipart.File
}

func (f *roomForm) close() {
	if f.file != nil {
		_ = f.file.Close()
	}
}

func parseRoomForm(r *http.Request) (roomForm, error) {
	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return roomForm{}, failure.BadRequest(err) //nolint:wrapcheck
	}

	form := roomForm{
		name:        r.FormValue(formRoomName),
		description: r.FormValue(formDescription),
		status:      r.FormValue(formStatus),
	}

	if raw := r.FormValue(formPrice); raw != constant.Empty {
		price, err := web.ID(raw, messageInvalidPrice)
		if err != nil {
			return roomForm{}, err
		}

		form.price = price
	}

	if file, header, err := r.FormFile(formImage); err == nil {
		form.file, form.header = file, header
	}

	return form, nil
}

// CreateRoom handles the creation of a new room.
// @Summary Create a new room
// @Description Create a new room with the provided details.
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param room_name formData string true "Room name"
// @Param price formData integer true "Price per day in Rupiah"
// @Param description formData string false "Room description"
// @Param status formData string false "available or unavailable"
// @Param image formData file false "Room image"
// @Success 201 {object} response.Data[createRoomResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "CreateRoom")
	defer scope.End()

	form, err := parseRoomForm(r)
	if err != nil {
		web.Fail(w, scope, err, "room form rejected")

		return
	}
	defer form.close()

	req := dto.CreateRoomRequest{
		RoomName:    form.name,
		Price:       form.price,
		Description: form.description,
		Status:      form.status,
		Image:       form.header,
		ImageFile:   form.file,
	}

	if err = validator.ValidateStruct(&req); err != nil {
		web.Fail(w, scope, err, "room form rejected")

		return
	}

	id, err := handler.service.Create(ctx, req)
	if err != nil {
		web.Fail(w, scope, err, "room not created")

		return
	}

	scope.AddEvent("room created")
	response.WithJSON(w, http.StatusCreated, createRoomResponse{ID: id})
}

// GetRooms lists the catalog ordered by name.
// @Summary Get all rooms
// @Tags Room
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "available or unavailable"
// @Param search query string false "Case-insensitive room name match"
// @Success 200 {object} response.Data[dto.GetRoomsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/rooms [get]
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "GetRooms")
	defer scope.End()

	params := gDto.QueryParams{}
	params.FromRequest(r, true)

	rooms, err := handler.service.GetAll(ctx, params, catalogFilter(r))
	if err != nil {
		web.Fail(w, scope, err, "rooms not listed")

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

// catalogFilter narrows the listing by exact status and a case-insensitive name match.
func catalogFilter(r *http.Request) gDto.FilterGroup {
	query := r.URL.Query()
	filter := gDto.And()

	if status := query.Get(model.FieldStatus); status != constant.Empty {
		filter.Add(gDto.Eq(model.TableName, model.FieldStatus, status))
	}

	if search := strings.TrimSpace(query.Get(constant.RequestParamSearch)); search != constant.Empty {
		filter.Add(gDto.Filter{
			Table:    model.TableName,
			Field:    model.FieldRoomName,
			Operator: gDto.FilterOperatorLike,
			Value:    search,
		})
	}

	return filter
}

// GetRoomByID retrieves a room by its ID.
// @Summary Get a room by ID
// @Tags Room
// @Produce json
// @Param id path integer true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [get]
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "GetRoomByID")
	defer scope.End()

	id, err := roomID(r)
	if err != nil {
		web.Fail(w, scope, err, "room id rejected")

		return
	}

	room, err := handler.service.Get(ctx, id)
	if err != nil {
		web.Fail(w, scope, err, "room not read")

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}

// UpdateRoom updates an existing room by its ID.
// @Summary Update a room by ID
// @Description Partial update, omitted fields keep their value.
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param id path integer true "Room ID"
// @Param room_name formData string false "Room name"
// @Param price formData integer false "Price per day in Rupiah"
// @Param description formData string false "Room description"
// @Param status formData string false "available or unavailable"
// @Param image formData file false "Room image"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "UpdateRoom")
	defer scope.End()

	id, err := roomID(r)
	if err != nil {
		web.Fail(w, scope, err, "room id rejected")

		return
	}

	form, err := parseRoomForm(r)
	if err != nil {
		web.Fail(w, scope, err, "room form rejected")

		return
	}
	defer form.close()

	req := dto.UpdateRoomRequest{
		RoomName:    form.name,
		Price:       form.price,
		Description: form.description,
		Status:      form.status,
		Image:       form.header,
		ImageFile:   form.file,
	}

	if err = validator.ValidateStruct(&req); err != nil {
		web.Fail(w, scope, err, "room form rejected")

		return
	}

	if err = handler.service.Update(ctx, req, id); err != nil {
		web.Fail(w, scope, err, "room not updated")

		return
	}

	scope.AddEvent("room updated")
	response.WithMessage(w, http.StatusOK, "Room updated successfully")
}

// DeleteRoom deletes a room by its ID.
// @Summary Delete a room by ID
// @Description Rooms that were ever booked are renamed and made unavailable instead of being removed.
// @Tags Room
// @Produce json
// @Param id path integer true "Room ID"
// @Success 200 {object} response.Data[deleteRoomResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "DeleteRoom")
	defer scope.End()

	id, err := roomID(r)
	if err != nil {
		web.Fail(w, scope, err, "room id rejected")

		return
	}

	softDeleted, err := handler.service.Delete(ctx, id)
	if err != nil {
		web.Fail(w, scope, err, "room not deleted")

		return
	}

	res := deleteRoomResponse{Message: "Room deleted successfully", SoftDeleted: softDeleted}
	if softDeleted {
		res.Message = "Room has bookings and was marked as deleted"
	}

	scope.AddEvent(res.Message)
	response.WithJSON(w, http.StatusOK, res)
}

func roomID(r *http.Request) (int64, error) {
	return web.ID(chi.URLParam(r, constant.RequestParamID), messageInvalidID) //nolint:wrapcheck
}
