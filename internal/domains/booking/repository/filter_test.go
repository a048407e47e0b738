package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cowork/internal/domains/booking/repository"
)

func TestFilters(t *testing.T) {
	tests := []struct {
		name  string
		where string
		got   func() (string, map[string]any)
	}{
		{name: "by id", where: "(bookings.id = :id)", got: func() (string, map[string]any) {
			f := repository.ByID(7)

			return f.GetWhereClause()
		}},
		{name: "by room", where: "(bookings.room_id = :room_id)", got: func() (string, map[string]any) {
			f := repository.ByRoom(3)

			return f.GetWhereClause()
		}},
		{name: "by user", where: "(bookings.user_id = :user_id)", got: func() (string, map[string]any) {
			f := repository.ByUser("u-1")

			return f.GetWhereClause()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.got()

			assert.Equal(t, tt.where, where)
			assert.Len(t, args, 1)
		})
	}
}

func TestByIDs(t *testing.T) {
	f := repository.ByIDs([]int64{4, 6})

	where, args := f.GetWhereClause()

	assert.Equal(t, "(bookings.id IN (:id_0, :id_1))", where)
	assert.Equal(t, map[string]any{"id_0": int64(4), "id_1": int64(6)}, args)
}
