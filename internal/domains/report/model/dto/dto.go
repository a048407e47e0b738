package dto

import (
	"strings"

	bookingDto "cowork/internal/domains/booking/model/dto"
	paymentModel "cowork/internal/domains/payment/model"
	"cowork/internal/domains/report/model"
	roomModel "cowork/internal/domains/room/model"
	userModel "cowork/internal/domains/user/model"
	"cowork/shared/constant"
	"cowork/shared/timezone"
)

const (
	CustomerTypeRegistered = "Registered"
	CustomerTypeGuest      = "Guest"

	guestIDPrefix = "guest:"
)

type RoomActivityResponse struct {
	ID            int64  `json:"id"`
	RoomName      string `json:"room_name"`
	Price         int64  `json:"price"`
	Status        string `json:"status"`
	Available     bool   `json:"available"`
	TotalBookings int    `json:"total_bookings"`
	TodayBookings int    `json:"today_bookings"`
}

func (r *RoomActivityResponse) FromModel(m model.RoomActivity) {
	r.ID = m.ID
	r.RoomName = m.RoomName
	r.Price = m.Price
	r.Status = m.Status
	r.Available = m.Status == roomModel.StatusAvailable
	r.TotalBookings = m.TotalBookings
	r.TodayBookings = m.TodayBookings
}

type RecentBookingResponse struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	Customer     string `json:"customer"`
	Email        string `json:"email"`
	RoomName     string `json:"room_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Status       string `json:"status"`
	Price        int64  `json:"price"`
	Payment      string `json:"payment"`
	PaymentLabel string `json:"payment_label"`
}

func (r *RecentBookingResponse) FromModel(m model.RecentBooking) {
	r.ID = m.ID
	r.Code = model.BookingCode(m.ID)
	r.Customer = m.Customer
	r.Email = m.Email
	r.RoomName = m.RoomName
	r.StartDate = timezone.FormatDate(m.StartDate)
	r.EndDate = timezone.FormatDate(m.EndDate)
	r.Status = m.Status
	r.Price = m.Price
	r.Payment = m.Payment
	r.PaymentLabel = paymentModel.MethodDisplayName(m.Payment)
}

type StatsResponse struct {
	TotalBookings  int                     `json:"total_bookings"`
	ActiveToday    int                     `json:"active_today"`
	TotalRooms     int                     `json:"total_rooms"`
	RoomDetails    []RoomActivityResponse  `json:"room_details"`
	RecentBookings []RecentBookingResponse `json:"recent_bookings"`
}

func (s *StatsResponse) FromModels(summary model.Summary, rooms []model.RoomActivity, recent []model.RecentBooking) {
	s.TotalBookings = summary.TotalBookings
	s.ActiveToday = summary.ActiveToday
	s.TotalRooms = summary.TotalRooms

	s.RoomDetails = make([]RoomActivityResponse, len(rooms))
	for i, room := range rooms {
		s.RoomDetails[i].FromModel(room)
	}

	s.RecentBookings = make([]RecentBookingResponse, len(recent))
	for i, booking := range recent {
		s.RecentBookings[i].FromModel(booking)
	}
}

type CustomerResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	TotalBookings   int    `json:"total_bookings"`
	TotalSpent      int64  `json:"total_spent"`
	LatestBookingAt string `json:"latest_booking_at"`
	CustomerType    string `json:"customer_type"`
}

// FromModel keys guests by their email so the same guest gets the same id on every call.
func (c *CustomerResponse) FromModel(m model.Customer) {
	if m.IsRegistered() {
		c.ID = *m.UserID
		c.CustomerType = CustomerTypeRegistered
	} else {
		c.ID = guestIDPrefix + strings.ToLower(m.Email)
		c.CustomerType = CustomerTypeGuest
	}

	c.Name = m.Name
	c.Email = m.Email
	c.PhoneNumber = m.PhoneNumber
	c.TotalBookings = m.TotalBookings
	c.TotalSpent = m.TotalSpent
	c.LatestBookingAt = timezone.Format(m.LatestBookingAt, constant.DateFormat)
}

type CustomerStats struct {
	TotalCustomers  int `json:"total_customers"`
	ActiveThisMonth int `json:"active_this_month"`
	Registered      int `json:"registered"`
	Guests          int `json:"guests"`
}

type CustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
	Stats     CustomerStats      `json:"stats"`
}

func (c *CustomersResponse) FromModels(models []model.Customer) {
	c.Customers = make([]CustomerResponse, len(models))
	c.Stats = CustomerStats{TotalCustomers: len(models)}

	for i, m := range models {
		c.Customers[i].FromModel(m)

		if m.BookingsThisMonth > 0 {
			c.Stats.ActiveThisMonth++
		}

		if m.IsRegistered() {
			c.Stats.Registered++
		} else {
			c.Stats.Guests++
		}
	}
}

// CustomerProfileResponse is the contact card of one registered customer.
type CustomerProfileResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

func (c *CustomerProfileResponse) FromModel(m userModel.User) {
	c.ID = m.ID
	c.Name = m.Name
	c.Email = m.Email
	c.PhoneNumber = m.PhoneNumber
}

// CustomerBookingsDeleted is the outcome of purging a customer's bookings.
type CustomerBookingsDeleted = bookingDto.DeleteUserBookingsResponse
