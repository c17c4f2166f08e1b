package client

import (
	"fmt"
	"net/url"

	"safarivista/pkg/model"
)

type ReviewClient struct {
	httpClient *HttpClient
}

func NewReviewClient(baseUrl string) *ReviewClient {
	return &ReviewClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *ReviewClient) WithToken(token string) *ReviewClient {
	c.httpClient.WithToken(token)
	return c
}

func (c *ReviewClient) Create(tourID string, body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/reviews/tour/"+url.PathEscape(tourID), body)
}

func (c *ReviewClient) GetByTour(tourID string, limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/reviews/tour/%s?limit=%d&offset=%d", url.PathEscape(tourID), limit, offset)
	return c.httpClient.GET(path)
}

func (c *ReviewClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET("/api/v1/reviews/id/" + url.PathEscape(id))
}

func (c *ReviewClient) Update(id string, body any) (*Response, error) {
	return c.httpClient.PATCH("/api/v1/reviews/id/"+url.PathEscape(id), body)
}

func (c *ReviewClient) Delete(id string) (*Response, error) {
	return c.httpClient.DELETE("/api/v1/reviews/id/" + url.PathEscape(id))
}

func (c *ReviewClient) ToggleHelpful(id string) (*Response, error) {
	return c.httpClient.PATCH("/api/v1/reviews/id/"+url.PathEscape(id)+"/helpful", nil)
}

func (c *ReviewClient) Respond(id string, body any) (*Response, error) {
	return c.httpClient.PATCH("/api/v1/reviews/id/"+url.PathEscape(id)+"/respond", body)
}

func (c *ReviewClient) DecodeReview(resp *Response) (*model.Review, error) {
	return decodeData[model.Review](resp, "review")
}

func (c *ReviewClient) DecodeReviews(resp *Response) ([]*model.Review, *Metadata, error) {
	return decodePage[model.Review](resp, "reviews")
}
