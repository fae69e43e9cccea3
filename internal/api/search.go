// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/yoop/pkg/types"
)

// CreateRequestBody is the body of POST /user/request/create. Name is a
// free label the backend requires but accepts empty.
type CreateRequestBody struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Text   string `json:"text"`
}

type createRequestResponse struct {
	ID string `json:"id"`
}

type fetchResultsBody struct {
	UserID    string `json:"userId"`
	RequestID string `json:"requestId"`
}

const recommendationsPath = "/result/getUserRecommendations"

// CreateRequest registers a search prompt for actorID and returns the
// backend's request id. A blank id is returned as-is; the caller decides
// what an unusable handle means.
func (c *Client) CreateRequest(ctx context.Context, actorID, label, query string) (string, error) {
	var res createRequestResponse
	body := CreateRequestBody{UserID: actorID, Name: label, Text: query}
	if err := c.do(ctx, http.MethodPost, "/user/request/create", body, &res); err != nil {
		return "", err
	}
	return strings.TrimSpace(res.ID), nil
}

// Recommendations returns whatever results exist for requestID right now.
// An empty list means the recommendation service has not finished yet.
func (c *Client) Recommendations(ctx context.Context, requestID string) ([]types.Candidate, error) {
	var out []types.Candidate
	err := c.do(ctx, http.MethodGet, recommendationsPath+"/"+url.PathEscape(requestID), nil, &out)
	return out, err
}

// FetchResults asks the backend to compute results for requestID
// synchronously.
func (c *Client) FetchResults(ctx context.Context, actorID, requestID string) ([]types.Candidate, error) {
	var out []types.Candidate
	body := fetchResultsBody{UserID: actorID, RequestID: requestID}
	err := c.do(ctx, http.MethodPost, recommendationsPath, body, &out)
	return out, err
}
