package client

import (
	"fmt"
	"net/url"

	"safarivista/pkg/model"
)

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseUrl string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *BookingClient) WithToken(token string) *BookingClient {
	c.httpClient.WithToken(token)
	return c
}

func (c *BookingClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/bookings", body)
}

func (c *BookingClient) CreateWithKey(body any, idempotencyKey string) (*Response, error) {
	return c.httpClient.POSTWithHeaders("/api/v1/bookings", body, map[string]string{
		"Idempotency-Key": idempotencyKey,
	})
}

func (c *BookingClient) GetAll(limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/bookings?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(path)
}

func (c *BookingClient) GetMine() (*Response, error) {
	return c.httpClient.GET("/api/v1/bookings/mine")
}

func (c *BookingClient) Stats() (*Response, error) {
	return c.httpClient.GET("/api/v1/bookings/stats")
}

func (c *BookingClient) GetByID(id string) (*Response, error) {
	path := "/api/v1/bookings/id/" + url.PathEscape(id)
	return c.httpClient.GET(path)
}

func (c *BookingClient) Update(id string, body any) (*Response, error) {
	path := "/api/v1/bookings/id/" + url.PathEscape(id)
	return c.httpClient.PATCH(path, body)
}

func (c *BookingClient) Cancel(id string) (*Response, error) {
	path := "/api/v1/bookings/id/" + url.PathEscape(id) + "/cancel"
	return c.httpClient.PATCH(path, nil)
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	return decodeData[model.Booking](resp, "booking")
}

func (c *BookingClient) DecodeBookings(resp *Response) ([]*model.Booking, *Metadata, error) {
	return decodePage[model.Booking](resp, "bookings")
}

func (c *BookingClient) DecodeStats(resp *Response) (*model.BookingStats, error) {
	return decodeData[model.BookingStats](resp, "booking stats")
}
