package repository

import (
	"strings"
	"testing"

	"cowork/shared/dto"

	"github.com/stretchr/testify/assert"
)

type stamp struct {
	CreatedAt string `db:"created_at"`
}

type reservation struct {
	ID       int64   `auto:"true" db:"id"`
	RoomID   int64   `db:"room_id"`
	Name     string  `db:"name"`
	RoomName *string `column:"room_name" db:"room_name"  table:"rooms"`
	Guest    *string `column:"name"      db:"guest_name" table:"guests"`
	Note     string
	Skipped  string `db:"-"`
	stamp
}

func (reservation) GetJoinQuery() string {
	return "LEFT JOIN rooms ON rooms.id = reservations.room_id LEFT JOIN guests ON guests.id = reservations.guest_id"
}

func newReservations() Repository[reservation] {
	return NewRepository[reservation]("reservation", "reservations", "id", nil, nil)
}

func TestColumnsOf(t *testing.T) {
	columns, insertable := columnsOf[reservation]("reservations")

	assert.Equal(t, []column{
		{name: "id", table: "reservations"},
		{name: "room_id", table: "reservations"},
		{name: "name", table: "reservations"},
		{name: "room_name", table: "rooms", alias: "room_name"},
		{name: "name", table: "guests", alias: "guest_name"},
		{name: "created_at", table: "reservations"},
	}, columns)
	assert.Equal(t, []string{"room_id", "name", "created_at"}, insertable)
}

func TestNewRepository(t *testing.T) {
	repo := newReservations()

	assert.Equal(t, "INSERT INTO reservations (room_id, name, created_at) VALUES (:room_id, :name, :created_at)", repo.insert)
	assert.Contains(t, repo.join, "LEFT JOIN guests")
}

func TestRepository_selectColumns(t *testing.T) {
	repo := newReservations()

	assert.Equal(t,
		"reservations.id, reservations.room_id, reservations.name, rooms.room_name AS room_name, guests.name AS guest_name, reservations.created_at",
		repo.selectColumns())
	assert.Equal(t, "reservations.id, guests.name AS guest_name", repo.selectColumns("id", "guest_name"))
}

func TestRepository_sortColumn(t *testing.T) {
	repo := newReservations()

	tests := map[string]string{
		"name":       "reservations.name",
		"guest_name": "guests.name",
		"room_name":  "rooms.room_name",
		"created_at": "reservations.created_at",
		"password":   "",
		"":           "",
		"name; DROP": "",
	}

	for sortBy, want := range tests {
		assert.Equal(t, want, repo.sortColumn(sortBy), sortBy)
	}
}

func TestWhereClause(t *testing.T) {
	where, args := whereClause(dto.FilterGroup{})
	assert.Empty(t, where)
	assert.NotNil(t, args)

	where, args = whereClause(dto.And(dto.Eq("reservations", "room_id", int64(4))))
	assert.Equal(t, " WHERE (reservations.room_id = :room_id)", where)
	assert.Equal(t, map[string]any{"room_id": int64(4)}, args)
}

func TestRepository_lockingSelect(t *testing.T) {
	repo := newReservations()

	query := repo.lockingSelect(" WHERE (reservations.room_id = :room_id) ORDER BY reservations.id")

	assert.True(t, strings.HasPrefix(query, "SELECT reservations.id, "))
	assert.Contains(t, query, "FROM reservations LEFT JOIN rooms")
	assert.True(t, strings.HasSuffix(query, " WHERE (reservations.room_id = :room_id) ORDER BY reservations.id FOR UPDATE OF reservations"))
}
