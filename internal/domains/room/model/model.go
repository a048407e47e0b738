package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"cowork/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldRoomName    = "room_name"
	FieldPrice       = "price"
	FieldDescription = "description"
	FieldImageURL    = "image_url"
	FieldStatus      = "status"
)

// MaxNameLength matches rooms.room_name, counted in characters.
const MaxNameLength = 100

var deletedSuffix = regexp.MustCompile(` \(Deleted \d+\)$`)

const (
	StatusAvailable   = "available"
	StatusUnavailable = "unavailable"
)

type Room struct {
	ID          int64  `auto:"true"          db:"id"`
	RoomName    string `db:"room_name"`
	Price       int64  `db:"price"`
	Description string `db:"description"`
	ImageURL    string `db:"image_url"`
	Status      string `db:"status"`
	model.Metadata
}

func (r *Room) IsAvailable() bool {
	return r.Status == StatusAvailable
}

// IsRetired reports whether name already carries the soft delete suffix.
func IsRetired(name string) bool {
	return deletedSuffix.MatchString(name)
}

// DeletedName is the name a room keeps once it is retired but still referenced by bookings.
// The original name is shortened so the result still fits the column, and a retired
// name is returned unchanged.
func DeletedName(name string, at time.Time) string {
	if IsRetired(name) {
		return name
	}

	suffix := fmt.Sprintf(" (Deleted %d)", at.Unix())

	runes := []rune(name)
	if keep := MaxNameLength - len([]rune(suffix)); len(runes) > keep {
		name = strings.TrimRightFunc(string(runes[:keep]), unicode.IsSpace)
	}

	return name + suffix
}
