package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cowork/internal/domains/report/model"
	"cowork/internal/domains/report/model/dto"
)

func TestStatsResponse_FromModels(t *testing.T) {
	var res dto.StatsResponse
	res.FromModels(
		model.Summary{TotalBookings: 12, ActiveToday: 2, TotalRooms: 4},
		[]model.RoomActivity{
			{ID: 1, RoomName: "Hot Desk", Status: "available", TodayBookings: 1},
			{ID: 2, RoomName: "Studio", Status: "unavailable"},
		},
		[]model.RecentBooking{{
			ID:        7,
			Customer:  "Budi Santoso",
			StartDate: time.Date(2025, 10, 26, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 10, 28, 0, 0, 0, 0, time.UTC),
			Payment:   "ewallet",
		}},
	)

	assert.Equal(t, 12, res.TotalBookings)
	require.Len(t, res.RoomDetails, 2)
	assert.True(t, res.RoomDetails[0].Available)
	assert.False(t, res.RoomDetails[1].Available)

	require.Len(t, res.RecentBookings, 1)
	assert.Equal(t, "#BK007", res.RecentBookings[0].Code)
	assert.Equal(t, "2025-10-26", res.RecentBookings[0].StartDate)
	assert.Equal(t, "E-Wallet", res.RecentBookings[0].PaymentLabel)
}

func TestCustomersResponse_FromModels(t *testing.T) {
	userID := "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
	latest := time.Date(2025, 10, 20, 9, 30, 0, 0, time.UTC)

	var res dto.CustomersResponse
	res.FromModels([]model.Customer{
		{UserID: &userID, Name: "Budi", Email: "budi@example.com", TotalBookings: 3, TotalSpent: 1500000, LatestBookingAt: latest, BookingsThisMonth: 1},
		{Name: "Siti", Email: "Siti@Example.com", TotalBookings: 1, TotalSpent: 250000, LatestBookingAt: latest},
	})

	require.Len(t, res.Customers, 2)
	assert.Equal(t, userID, res.Customers[0].ID)
	assert.Equal(t, dto.CustomerTypeRegistered, res.Customers[0].CustomerType)
	assert.Equal(t, "guest:siti@example.com", res.Customers[1].ID)
	assert.Equal(t, dto.CustomerTypeGuest, res.Customers[1].CustomerType)

	assert.Equal(t, dto.CustomerStats{TotalCustomers: 2, ActiveThisMonth: 1, Registered: 1, Guests: 1}, res.Stats)
}
