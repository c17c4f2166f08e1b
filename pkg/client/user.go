package client

import "safarivista/pkg/model"

type UserClient struct {
	httpClient *HttpClient
}

func NewUserClient(baseUrl string) *UserClient {
	return &UserClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *UserClient) WithToken(token string) *UserClient {
	c.httpClient.WithToken(token)
	return c
}

func (c *UserClient) Signup(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/users/signup", body)
}

func (c *UserClient) Login(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/users/login", body)
}

func (c *UserClient) Me() (*Response, error) {
	return c.httpClient.GET("/api/v1/users/me")
}

func (c *UserClient) DecodeAuth(resp *Response) (*model.AuthResponse, error) {
	return decodeData[model.AuthResponse](resp, "auth")
}

func (c *UserClient) DecodeUser(resp *Response) (*model.User, error) {
	return decodeData[model.User](resp, "user")
}
