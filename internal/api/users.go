// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/yoop/pkg/types"
)

// UpdateUserPayload is the body of PUT /user/update. The backend replaces
// the whole profile, so callers start from the current User.
type UpdateUserPayload struct {
	ID           string   `json:"id" validate:"required"`
	Login        string   `json:"login" validate:"required"`
	PhotoHash    string   `json:"photoHash"`
	Name         string   `json:"name" validate:"required"`
	SurName      string   `json:"surName" validate:"required"`
	FatherName   string   `json:"fatherName"`
	Age          int      `json:"age" validate:"min=14,max=120"`
	Gender       string   `json:"gender"`
	DescribeUser string   `json:"describeUser" validate:"max=2000"`
	City         string   `json:"city" validate:"required"`
	Contact      string   `json:"contact"`
	Skills       []string `json:"skills"`
	Interests    []string `json:"interests"`
	Hobbies      []string `json:"hobbies"`
}

// UpdatePayloadFrom seeds an update from the current profile.
func UpdatePayloadFrom(u types.User) UpdateUserPayload {
	return UpdateUserPayload{
		ID:           u.ID,
		Login:        u.Login,
		PhotoHash:    u.PhotoHash,
		Name:         u.Name,
		SurName:      u.SurName,
		FatherName:   u.FatherName,
		Age:          u.Age,
		Gender:       u.Gender,
		DescribeUser: u.Bio,
		City:         u.City,
		Contact:      u.Contact,
		Skills:       append([]string(nil), u.Skills...),
		Interests:    append([]string(nil), u.Interests...),
		Hobbies:      append([]string(nil), u.Hobbies...),
	}
}

// User fetches a profile by id.
func (c *Client) User(ctx context.Context, id string) (types.User, error) {
	if id == "" {
		return types.User{}, fmt.Errorf("user id is required")
	}
	var u types.User
	if err := c.do(ctx, http.MethodGet, userPath(id), nil, &u); err != nil {
		return types.User{}, err
	}
	return u, nil
}

// UpdateUser replaces the caller's profile and returns the stored version.
func (c *Client) UpdateUser(ctx context.Context, p UpdateUserPayload) (types.User, error) {
	if err := Validate(p); err != nil {
		return types.User{}, err
	}
	var u types.User
	if err := c.do(ctx, http.MethodPut, "/user/update", p, &u); err != nil {
		return types.User{}, err
	}
	// Some deployments answer 200 with an empty body.
	if u.ID == "" {
		u = types.User{
			Candidate: types.Candidate{
				ID: p.ID, Login: p.Login, PhotoHash: p.PhotoHash,
				Name: p.Name, SurName: p.SurName, FatherName: p.FatherName,
				Age: p.Age, Gender: p.Gender, City: p.City, Bio: p.DescribeUser,
				Skills: p.Skills, Interests: p.Interests, Hobbies: p.Hobbies,
			},
			Contact: p.Contact,
		}
	}
	return u, nil
}
