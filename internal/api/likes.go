// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/yoop/pkg/types"
)

type targetBody struct {
	ID string `json:"id"`
}

// Like records that actorID likes targetID.
func (c *Client) Like(ctx context.Context, actorID, targetID string) error {
	return c.react(ctx, "like", actorID, targetID)
}

// Dislike records that actorID passes on targetID.
func (c *Client) Dislike(ctx context.Context, actorID, targetID string) error {
	return c.react(ctx, "dislike", actorID, targetID)
}

func (c *Client) react(ctx context.Context, verb, actorID, targetID string) error {
	if actorID == "" || targetID == "" {
		return fmt.Errorf("%s: actor and target ids are required", verb)
	}
	if actorID == targetID {
		return fmt.Errorf("%s: cannot react to yourself", verb)
	}
	return c.do(ctx, http.MethodPost, userPath(actorID, verb), targetBody{ID: targetID}, nil)
}

// Liked lists the people userID liked.
func (c *Client) Liked(ctx context.Context, userID string) ([]types.Candidate, error) {
	return c.list(ctx, userID, "getLiked")
}

// LikedBy lists the people who liked userID.
func (c *Client) LikedBy(ctx context.Context, userID string) ([]types.Candidate, error) {
	return c.list(ctx, userID, "hasLiked")
}

// Matches lists mutual likes of userID.
func (c *Client) Matches(ctx context.Context, userID string) ([]types.Candidate, error) {
	return c.list(ctx, userID, "getMatches")
}

func (c *Client) list(ctx context.Context, userID, suffix string) ([]types.Candidate, error) {
	var out []types.Candidate
	if err := c.do(ctx, http.MethodGet, userPath(userID, suffix), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LikeSummary groups the three like-graph views of one user.
type LikeSummary struct {
	Liked   []types.Candidate `json:"liked" yaml:"liked"`
	LikedBy []types.Candidate `json:"liked_by" yaml:"liked_by"`
	Matches []types.Candidate `json:"matches" yaml:"matches"`
}

// LikeSummary fetches liked, liked-by and matches concurrently. The first
// failure cancels the other calls.
func (c *Client) LikeSummary(ctx context.Context, userID string) (LikeSummary, error) {
	var s LikeSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.Liked, err = c.Liked(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		s.LikedBy, err = c.LikedBy(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		s.Matches, err = c.Matches(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return LikeSummary{}, err
	}
	return s, nil
}
