package client

import (
	"fmt"
	"net/url"

	"safarivista/pkg/model"
)

type TourClient struct {
	httpClient *HttpClient
}

func NewTourClient(baseUrl string) *TourClient {
	return &TourClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *TourClient) WithToken(token string) *TourClient {
	c.httpClient.WithToken(token)
	return c
}

func (c *TourClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/tours", body)
}

func (c *TourClient) GetAll(category string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))
	return c.httpClient.GET("/api/v1/tours?" + q.Encode())
}

func (c *TourClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET("/api/v1/tours/id/" + url.PathEscape(id))
}

func (c *TourClient) Update(id string, body any) (*Response, error) {
	return c.httpClient.PATCH("/api/v1/tours/id/"+url.PathEscape(id), body)
}

func (c *TourClient) Delete(id string) (*Response, error) {
	return c.httpClient.DELETE("/api/v1/tours/id/" + url.PathEscape(id))
}

func (c *TourClient) DecodeTour(resp *Response) (*model.Tour, error) {
	return decodeData[model.Tour](resp, "tour")
}

func (c *TourClient) DecodeTours(resp *Response) ([]*model.Tour, *Metadata, error) {
	return decodePage[model.Tour](resp, "tours")
}
