package apiclient

import (
	"context"
	"time"
)

type User struct {
	Id         string     `json:"id"`
	Username   string     `json:"username"`
	Status     string     `json:"status"`
	LastSeenAt *time.Time `json:"last_seen_at"`
}

type UserList struct {
	Users []User `json:"users"`
	Count int    `json:"count"`
}

func (c *ApiClient) GetUsers(ctx context.Context) (*UserList, int, error) {
	response := &UserList{}

	code, err := c.httpClient.Get(ctx, "/users", response)
	if err != nil {
		return nil, code, err
	}

	return response, code, nil
}
