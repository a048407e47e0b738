package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	authDto "cowork/internal/domains/auth/model/dto"
	bookingDto "cowork/internal/domains/booking/model/dto"
	roomDto "cowork/internal/domains/room/model/dto"
	"cowork/shared/constant"
)

const (
	defaultTimeout = 15 * time.Second

	actionUserBookings = "user_bookings"
)

// Client talks to the booking API on behalf of the wizard.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SetToken switches the bearer token used for later calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data"`
	Error   string `json:"error"`
}

func (c *Client) Login(ctx context.Context, email, password string) (authDto.LoginResponse, error) {
	var res authDto.LoginResponse

	err := c.do(ctx, http.MethodPost, "/v1/auth/login", nil, authDto.LoginRequest{Email: email, Password: password}, &res)

	return res, err
}

func (c *Client) Room(ctx context.Context, id int64) (roomDto.RoomResponse, error) {
	var res roomDto.RoomResponse

	err := c.do(ctx, http.MethodGet, "/v1/rooms/"+strconv.FormatInt(id, 10), nil, nil, &res)

	return res, err
}

func (c *Client) CreateBooking(ctx context.Context, req bookingDto.CreateBookingRequest) (bookingDto.CreateBookingResponse, error) {
	var res bookingDto.CreateBookingResponse

	err := c.do(ctx, http.MethodPost, "/v1/bookings", nil, req, &res)

	return res, err
}

func (c *Client) UserBookings(ctx context.Context, userID string) ([]bookingDto.BookingResponse, error) {
	var res bookingDto.GetBookingsResponse

	query := url.Values{}
	query.Set(constant.RequestParamAction, actionUserBookings)
	query.Set(constant.RequestParamUserID, userID)

	if err := c.do(ctx, http.MethodGet, "/v1/bookings", query, nil, &res); err != nil {
		return nil, err
	}

	return res.Bookings, nil
}

// do sends one request and unwraps the response envelope into out. A failed call
// returns the server's error message unchanged.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	if body != nil {
		req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	}

	if c.token != constant.Empty {
		req.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach booking API: %w", err)
	}
	defer resp.Body.Close()

	var env envelope[json.RawMessage]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("unexpected response (HTTP %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		if env.Error != constant.Empty {
			return errors.New(env.Error)
		}

		return fmt.Errorf("request failed with HTTP %d", resp.StatusCode)
	}

	if out == nil || env.Data == nil {
		return nil
	}

	if err := json.Unmarshal(*env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
