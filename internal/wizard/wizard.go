// Package wizard drives the three step booking flow of the terminal client: guest details,
// payment method, then a single create call against the API.
package wizard

//go:generate go run go.uber.org/mock/mockgen -source=./wizard.go -destination=./mocks/wizard_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	bookingDto "cowork/internal/domains/booking/model/dto"
	paymentModel "cowork/internal/domains/payment/model"
	"cowork/shared/constant"
	"cowork/shared/timezone"
	"cowork/shared/validator"

	"github.com/rs/zerolog/log"
)

type State int

const (
	StateCollectDetails State = iota + 1
	StateSelectPayment
	StateConfirming
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateCollectDetails: "collect_details",
	StateSelectPayment:  "select_payment",
	StateConfirming:     "confirming",
	StateDone:           "done",
	StateFailed:         "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrBusy           = errors.New("a booking is being submitted, please wait")
	ErrInvalidState   = errors.New("action is not available at this step")
	ErrMissingFields  = errors.New("name, email and phone number are required")
	ErrInvalidDates   = errors.New("please select valid start and end dates")
	ErrEndBeforeStart = errors.New("end date must not be before start date")
	ErrNoPayment      = errors.New("please select a payment method")
	ErrUnknownMethod  = errors.New("unknown payment method")
)

// PaymentMethods lists the tags offered to the guest, in display order.
var PaymentMethods = []string{
	paymentModel.MethodCredit,
	paymentModel.MethodBank,
	paymentModel.MethodEWallet,
	paymentModel.MethodCash,
}

// Booker is the server side of the flow.
type Booker interface {
	CreateBooking(ctx context.Context, req bookingDto.CreateBookingRequest) (bookingDto.CreateBookingResponse, error)
	UserBookings(ctx context.Context, userID string) ([]bookingDto.BookingResponse, error)
}

type Room struct {
	ID    int64
	Name  string
	Price int64
}

type Details struct {
	Name        string
	Email       string
	PhoneNumber string
	StartDate   string
	EndDate     string
}

// Summary is what the guest sees once the booking went through.
type Summary struct {
	BookingID     int64
	PaymentID     int64
	Code          string
	Name          string
	Email         string
	Room          string
	StartDate     string
	EndDate       string
	Days          int64
	PaymentMethod string
	Total         int64
}

type Wizard struct {
	mu sync.Mutex

	booker Booker
	room   Room
	userID string

	state      State
	details    Details
	method     string
	summary    Summary
	lastError  string
	myBookings []bookingDto.BookingResponse
}

// New starts a wizard for room. userID is empty for guests, in which case the
// "my bookings" list is never refreshed.
func New(booker Booker, room Room, userID string) *Wizard {
	return &Wizard{
		booker: booker,
		room:   room,
		userID: userID,
		state:  StateCollectDetails,
	}
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.state
}

// LastError is the message of the last failed confirmation, verbatim from the server.
func (w *Wizard) LastError() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.lastError
}

func (w *Wizard) Summary() Summary {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.summary
}

func (w *Wizard) MyBookings() []bookingDto.BookingResponse {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append([]bookingDto.BookingResponse(nil), w.myBookings...)
}

// SubmitDetails moves from the details step to the payment step.
func (w *Wizard) SubmitDetails(details Details) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guard(StateCollectDetails); err != nil {
		return err
	}

	details = Details{
		Name:        strings.TrimSpace(details.Name),
		Email:       strings.TrimSpace(details.Email),
		PhoneNumber: strings.TrimSpace(details.PhoneNumber),
		StartDate:   strings.TrimSpace(details.StartDate),
		EndDate:     strings.TrimSpace(details.EndDate),
	}

	if details.Name == constant.Empty || details.Email == constant.Empty || details.PhoneNumber == constant.Empty {
		return ErrMissingFields
	}

	if err := validator.ValidateVar(details.Email, "email"); err != nil {
		return err //nolint:wrapcheck
	}

	start, errStart := timezone.ParseDate(details.StartDate)
	end, errEnd := timezone.ParseDate(details.EndDate)

	if errStart != nil || errEnd != nil {
		return ErrInvalidDates
	}

	if end.Before(start) {
		return ErrEndBeforeStart
	}

	w.details = details
	w.state = StateSelectPayment

	return nil
}

func (w *Wizard) SelectPayment(method string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guard(StateSelectPayment); err != nil {
		return err
	}

	method = strings.ToLower(strings.TrimSpace(method))

	for _, known := range PaymentMethods {
		if known == method {
			w.method = method

			return nil
		}
	}

	return ErrUnknownMethod
}

// Confirm submits the booking. It blocks for the duration of the call and every other
// action returns ErrBusy meanwhile. A server rejection moves the wizard to StateFailed
// and is returned as is.
func (w *Wizard) Confirm(ctx context.Context) (Summary, error) {
	w.mu.Lock()

	if err := w.guard(StateSelectPayment); err != nil {
		w.mu.Unlock()

		return Summary{}, err
	}

	if w.method == constant.Empty {
		w.mu.Unlock()

		return Summary{}, ErrNoPayment
	}

	days := w.days()
	total := w.room.Price * days
	req := bookingDto.CreateBookingRequest{
		RoomID:      w.room.ID,
		Name:        w.details.Name,
		Email:       w.details.Email,
		PhoneNumber: w.details.PhoneNumber,
		StartDate:   w.details.StartDate,
		EndDate:     w.details.EndDate,
		Price:       total,
		Payment:     w.method,
	}

	w.state = StateConfirming
	w.mu.Unlock()

	res, err := w.booker.CreateBooking(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.state = StateFailed
		w.lastError = err.Error()

		log.Warn().Err(err).Int64("room_id", w.room.ID).Msg("booking was rejected")

		return Summary{}, err
	}

	w.summary = Summary{
		BookingID:     res.BookingID,
		PaymentID:     res.PaymentID,
		Code:          fmt.Sprintf("#%03d", res.BookingID),
		Name:          req.Name,
		Email:         req.Email,
		Room:          w.room.Name,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Days:          days,
		PaymentMethod: paymentModel.MethodDisplayName(req.Payment),
		Total:         total,
	}
	w.lastError = constant.Empty
	w.state = StateDone

	if w.userID != constant.Empty {
		bookings, err := w.booker.UserBookings(ctx, w.userID)
		if err != nil {
			log.Warn().Err(err).Msg("failed to refresh my bookings")
		} else {
			w.myBookings = bookings
		}
	}

	return w.summary, nil
}

// Retry returns from a failed confirmation to the payment step with everything kept.
func (w *Wizard) Retry() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guard(StateFailed); err != nil {
		return err
	}

	w.state = StateSelectPayment

	return nil
}

// Back steps one screen back. From Done it starts over.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateConfirming:
		return ErrBusy
	case StateSelectPayment:
		w.state = StateCollectDetails
	case StateFailed:
		w.state = StateSelectPayment
	case StateDone:
		w.reset()
	case StateCollectDetails:
	}

	return nil
}

// Reset discards everything collected so far.
func (w *Wizard) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateConfirming {
		return ErrBusy
	}

	w.reset()

	return nil
}

// Total is the client side price: room price times whole days, at least one day.
func (w *Wizard) Total() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.room.Price * w.days()
}

func (w *Wizard) days() int64 {
	return Days(w.details.StartDate, w.details.EndDate)
}

func (w *Wizard) reset() {
	w.details = Details{}
	w.method = constant.Empty
	w.summary = Summary{}
	w.lastError = constant.Empty
	w.state = StateCollectDetails
}

func (w *Wizard) guard(want State) error {
	if w.state == StateConfirming {
		return ErrBusy
	}

	if w.state != want {
		return ErrInvalidState
	}

	return nil
}

// Days counts whole days between two YYYY-MM-DD dates, rounding up and never below one.
func Days(startDate, endDate string) int64 {
	start, errStart := timezone.ParseDate(startDate)
	end, errEnd := timezone.ParseDate(endDate)

	if errStart != nil || errEnd != nil {
		return 1
	}

	return max(timezone.Nights(start, end), 1)
}
