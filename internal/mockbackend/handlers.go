// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mockbackend

import (
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pdiddy/yoop/pkg/types"
)

// --- profiles ---

func (s *Server) getUser(c echo.Context) error {
	s.mu.Lock()
	a, ok := s.accounts[c.Param("id")]
	var u types.User
	if ok {
		u = a.user
	}
	s.mu.Unlock()

	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, u)
}

type updateBody struct {
	ID           string     `json:"id"`
	Login        string     `json:"login"`
	PhotoHash    string     `json:"photoHash"`
	Name         string     `json:"name"`
	SurName      string     `json:"surName"`
	FatherName   string     `json:"fatherName"`
	Age          int        `json:"age"`
	Gender       string     `json:"gender"`
	DescribeUser string     `json:"describeUser"`
	City         string     `json:"city"`
	Contact      string     `json:"contact"`
	Skills       types.Tags `json:"skills"`
	Interests    types.Tags `json:"interests"`
	Hobbies      types.Tags `json:"hobbies"`
}

func (s *Server) updateUser(c echo.Context) error {
	var b updateBody
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	if b.ID != callerID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "cannot update another user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[b.ID]
	if b.Login != a.user.Login {
		if _, taken := s.logins[b.Login]; taken || b.Login == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "login already exists")
		}
		delete(s.logins, a.user.Login)
		s.logins[b.Login] = b.ID
	}
	a.user = types.User{
		Candidate: types.Candidate{
			ID: b.ID, Login: b.Login, PhotoHash: b.PhotoHash,
			Name: b.Name, SurName: b.SurName, FatherName: b.FatherName,
			Age: b.Age, Gender: b.Gender, City: b.City, Bio: b.DescribeUser,
			Skills: b.Skills, Interests: b.Interests, Hobbies: b.Hobbies,
		},
		Contact:  b.Contact,
		Requests: a.user.Requests,
	}
	return c.JSON(http.StatusOK, a.user)
}

// --- search ---

type createRequestBody struct {
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

func (s *Server) createRequest(c echo.Context) error {
	var b createRequestBody
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	if b.UserID != callerID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "userId does not match token")
	}
	if strings.TrimSpace(b.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}

	s.mu.Lock()
	req := &searchRequest{
		id:      uuid.NewString(),
		actorID: b.UserID,
		label:   b.Name,
		text:    b.Text,
		results: s.matchLocked(b.UserID, b.Text),
	}
	s.requests[req.id] = req
	a := s.accounts[b.UserID]
	a.user.Requests = append(a.user.Requests, req.id)
	s.mu.Unlock()

	s.log.Debug().
		Str("request_id", req.id).
		Str("text", b.Text).
		Int("matches", len(req.results)).
		Msg("search request created")
	return c.JSON(http.StatusOK, createRequestResponse{ID: req.id})
}

// recommendations answers with an empty list until the request has been
// polled more than ReadyAfter times.
func (s *Server) recommendations(c echo.Context) error {
	s.mu.Lock()
	req, ok := s.requests[c.Param("id")]
	var out []types.Candidate
	if ok && req.actorID == callerID(c) {
		req.polls++
		if req.polls > s.cfg.ReadyAfter {
			out = req.results
		}
	}
	s.mu.Unlock()

	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "request not found")
	}
	if req.actorID != callerID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "request belongs to another user")
	}
	return c.JSON(http.StatusOK, nonNil(out))
}

// fetchResults computes results synchronously regardless of ReadyAfter.
func (s *Server) fetchResults(c echo.Context) error {
	var b fetchResultsBody
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	if b.UserID != callerID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "userId does not match token")
	}

	s.mu.Lock()
	req, ok := s.requests[b.RequestID]
	var out []types.Candidate
	if ok {
		out = req.results
	}
	s.mu.Unlock()

	if !ok || req.actorID != b.UserID {
		return echo.NewHTTPError(http.StatusNotFound, "request not found")
	}
	return c.JSON(http.StatusOK, nonNil(out))
}

// matchLocked ranks every other profile by how many query terms appear in
// its name, city, bio or tags. Profiles the actor disliked are skipped.
func (s *Server) matchLocked(actorID, text string) []types.Candidate {
	terms := strings.Fields(strings.ToLower(text))

	type scored struct {
		c     types.Candidate
		score int
	}
	var hits, rest []scored
	for id, a := range s.accounts {
		if id == actorID || s.dislikes[actorID][id] {
			continue
		}
		hay := strings.ToLower(strings.Join(append([]string{
			a.user.Name, a.user.SurName, a.user.City, a.user.Bio,
		}, a.user.AllTags()...), " "))

		score := 0
		for _, t := range terms {
			if strings.Contains(hay, t) {
				score++
			}
		}
		entry := scored{c: a.user.Candidate, score: score}
		if score > 0 {
			hits = append(hits, entry)
		} else {
			rest = append(rest, entry)
		}
	}

	byScore := func(list []scored) {
		sort.Slice(list, func(i, j int) bool {
			if list[i].score != list[j].score {
				return list[i].score > list[j].score
			}
			return list[i].c.ID < list[j].c.ID
		})
	}
	byScore(hits)
	if len(hits) == 0 && s.cfg.FallbackSize > 0 {
		byScore(rest)
		if len(rest) > s.cfg.FallbackSize {
			rest = rest[:s.cfg.FallbackSize]
		}
		hits = rest
	}

	out := make([]types.Candidate, len(hits))
	for i, h := range hits {
		out[i] = h.c
	}
	return out
}

// --- likes ---

type targetBody struct {
	ID string `json:"id"`
}

func (s *Server) react(like bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor := c.Param("id")
		if actor != callerID(c) {
			return echo.NewHTTPError(http.StatusForbidden, "cannot react for another user")
		}
		var b targetBody
		if err := c.Bind(&b); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
		}
		if b.ID == "" || b.ID == actor {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid target")
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.accounts[b.ID]; !ok {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		add, remove := s.likes, s.dislikes
		if !like {
			add, remove = s.dislikes, s.likes
		}
		delete(remove[actor], b.ID)
		if add[actor] == nil {
			add[actor] = make(map[string]bool)
		}
		add[actor][b.ID] = true
		return c.NoContent(http.StatusOK)
	}
}

func (s *Server) liked(c echo.Context) error {
	return s.listUsers(c, func(self, other string) bool { return s.likes[self][other] })
}

func (s *Server) likedBy(c echo.Context) error {
	return s.listUsers(c, func(self, other string) bool { return s.likes[other][self] })
}

func (s *Server) matches(c echo.Context) error {
	return s.listUsers(c, func(self, other string) bool {
		return s.likes[self][other] && s.likes[other][self]
	})
}

// listUsers returns every account other than :id for which keep holds,
// ordered by id.
func (s *Server) listUsers(c echo.Context, keep func(self, other string) bool) error {
	self := c.Param("id")

	s.mu.Lock()
	if _, ok := s.accounts[self]; !ok {
		s.mu.Unlock()
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	out := []types.Candidate{}
	for id, a := range s.accounts {
		if id != self && keep(self, id) {
			out = append(out, a.user.Candidate)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return c.JSON(http.StatusOK, out)
}

func nonNil(list []types.Candidate) []types.Candidate {
	if list == nil {
		return []types.Candidate{}
	}
	return list
}
