package model

import (
	"fmt"
	"time"
)

const (
	EntityName = "report"

	RecentBookingsLimit = 5
)

type Summary struct {
	TotalBookings int `db:"total_bookings"`
	ActiveToday   int `db:"active_today"`
	TotalRooms    int `db:"total_rooms"`
}

// RoomActivity is a room together with how often it was booked.
// TodayBookings counts confirmed bookings whose range covers today.
type RoomActivity struct {
	ID            int64  `db:"id"`
	RoomName      string `db:"room_name"`
	Price         int64  `db:"price"`
	Status        string `db:"status"`
	TotalBookings int    `db:"total_bookings"`
	TodayBookings int    `db:"today_bookings"`
}

type RecentBooking struct {
	ID        int64     `db:"id"`
	Customer  string    `db:"customer"`
	Email     string    `db:"email"`
	RoomName  string    `db:"room_name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Status    string    `db:"status"`
	Price     int64     `db:"price"`
	Payment   string    `db:"payment"`
}

// Customer aggregates bookings per registered user, or per (name, email) for guests.
type Customer struct {
	UserID            *string   `db:"user_id"`
	Name              string    `db:"name"`
	Email             string    `db:"email"`
	PhoneNumber       string    `db:"phone_number"`
	TotalBookings     int       `db:"total_bookings"`
	TotalSpent        int64     `db:"total_spent"`
	LatestBookingAt   time.Time `db:"latest_booking_at"`
	BookingsThisMonth int       `db:"bookings_this_month"`
}

func (c Customer) IsRegistered() bool {
	return c.UserID != nil
}

// BookingCode renders the short reference shown on dashboards, e.g. #BK007.
func BookingCode(id int64) string {
	return fmt.Sprintf("#BK%03d", id)
}
