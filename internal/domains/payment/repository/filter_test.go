package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cowork/internal/domains/payment/repository"
)

func TestByIDs(t *testing.T) {
	f := repository.ByIDs([]int64{14, 16})

	where, args := f.GetWhereClause()

	assert.Equal(t, "(payments.id IN (:id_0, :id_1))", where)
	assert.Len(t, args, 2)
}

func TestByIDs_Empty(t *testing.T) {
	f := repository.ByIDs(nil)

	where, args := f.GetWhereClause()

	assert.Equal(t, "(FALSE)", where)
	assert.Empty(t, args)
}
