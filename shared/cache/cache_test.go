package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestEncode(t *testing.T) {
	raw, err := encode("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", string(raw))

	raw, err = encode([]byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, raw)

	raw, err = encode(roomSummary{ID: 3, Name: "Studio"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"name":"Studio"}`, string(raw))

	_, err = encode(make(chan int))
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	var text string
	require.NoError(t, decode([]byte(`{"id":3}`), &text))
	assert.Equal(t, `{"id":3}`, text)

	var room roomSummary
	require.NoError(t, decode([]byte(`{"id":3,"name":"Studio"}`), &room))
	assert.Equal(t, roomSummary{ID: 3, Name: "Studio"}, room)

	assert.Error(t, decode([]byte("not json"), &room))
}
