// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/yoop/internal/httputil"
	"github.com/pdiddy/yoop/pkg/types"
)

func testClient(ts *httptest.Server, opts ...Option) *Client {
	cfg := types.HTTPConfig{
		BaseURL:    ts.URL + "/",
		Timeout:    5 * time.Second,
		UserAgent:  "yoop-test/0.1",
		MaxRetries: 1,
	}
	return New(cfg, append([]Option{WithHTTPClient(ts.Client())}, opts...)...)
}

// --- transport behaviour ---

func TestDo_SetsHeadersAndBody(t *testing.T) {
	var captured *http.Request
	var body map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `{"id":"req-7"}`)
	}))
	defer ts.Close()

	c := testClient(ts, WithToken("tok"))
	id, err := c.CreateRequest(context.Background(), "u1", "", "Frontend React")
	require.NoError(t, err)
	assert.Equal(t, "req-7", id)

	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/user/request/create", captured.URL.Path)
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", captured.Header.Get("Accept"))
	assert.Equal(t, "Bearer tok", captured.Header.Get("Authorization"))
	assert.Equal(t, "yoop-test/0.1", captured.Header.Get("User-Agent"))
	assert.Equal(t, map[string]string{"userId": "u1", "name": "", "text": "Frontend React"}, body)
}

func TestDo_GetHasNoContentType(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `[]`)
	}))
	defer ts.Close()

	_, err := testClient(ts).Recommendations(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Empty(t, captured.Header.Get("Content-Type"))
	assert.Empty(t, captured.Header.Get("Authorization"))
	assert.Equal(t, "/result/getUserRecommendations/a%2Fb", captured.URL.EscapedPath())
}

func TestDo_NonSuccessIsStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "  boom \n")
	}))
	defer ts.Close()

	_, err := testClient(ts).Recommendations(context.Background(), "r1")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "boom", se.Body)
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
	assert.Equal(t, "GET /result/getUserRecommendations/r1: 500 boom", se.Error())
}

func TestDo_EmptyBodyDecodesToZero(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	id, err := testClient(ts).CreateRequest(context.Background(), "u1", "", "q")
	require.NoError(t, err)
	assert.Equal(t, "", id)
}

func TestDo_MalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"id":`)
	}))
	defer ts.Close()

	_, err := testClient(ts).Matches(context.Background(), "u1")
	assert.ErrorContains(t, err, "parsing response")
}

func TestDo_RetriesTooManyRequests(t *testing.T) {
	orig := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	defer func() { httputil.RetryBaseDelay = orig }()

	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `[{"id":"p1","name":"Vika"}]`)
	}))
	defer ts.Close()

	out, err := testClient(ts).Liked(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Vika", out[0].Name)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

// --- auth ---

func TestLogin_QuotedTokenText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/login", r.URL.Path)
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, `"header.payload.sig"`)
	}))
	defer ts.Close()

	res, err := testClient(ts).Login(context.Background(), LoginPayload{Login: "anna", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "header.payload.sig", res.Token)
	assert.Empty(t, res.UserID)
}

func TestLogin_BareTokenAndObject(t *testing.T) {
	for name, body := range map[string]string{
		"bare":   `header.payload.sig`,
		"object": `{"token":"header.payload.sig","userId":"u9"}`,
	} {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, body)
			}))
			defer ts.Close()

			res, err := testClient(ts).Login(context.Background(), LoginPayload{Login: "anna", Password: "secret1"})
			require.NoError(t, err)
			assert.Equal(t, "header.payload.sig", res.Token)
		})
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	_, err := testClient(ts).Login(context.Background(), LoginPayload{Login: "anna", Password: "nope"})
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func validRegister() RegisterPayload {
	return RegisterPayload{
		Login: "anna", Password: "secret1", PasswordConfirm: "secret1",
		Name: "Anna", SurName: "Petrova", Age: 25, Gender: "female", City: "Kazan",
	}
}

func TestRegister_ValidationRunsBeforeNetwork(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	p := validRegister()
	p.PasswordConfirm = "different"
	p.Age = 7
	_, err := testClient(ts).Register(context.Background(), p)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "passwords do not match", ve.Fields["PasswordConfirm"])
	assert.Contains(t, ve.Fields, "age")
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestRegister_Created(t *testing.T) {
	var sent map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &sent))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `"tok"`)
	}))
	defer ts.Close()

	res, err := testClient(ts).Register(context.Background(), validRegister())
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.NotContains(t, sent, "PasswordConfirm")
	assert.Nil(t, sent["describeUser"])
	assert.Equal(t, "female", sent["gender"])
}

func TestRegister_LoginTaken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	_, err := testClient(ts).Register(context.Background(), validRegister())
	assert.ErrorIs(t, err, ErrLoginTaken)
}

// --- profile ---

func TestUser_DecodesObjectTags(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/u1", r.URL.Path)
		fmt.Fprint(w, `{"id":"u1","login":"anna","name":"Anna","contact":"@anna",
			"skills":[{"id":"s1","skillName":"Go"}],"interests":["UX"],"hobbies":null}`)
	}))
	defer ts.Close()

	u, err := testClient(ts).User(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, types.Tags{"Go"}, u.Skills)
	assert.Equal(t, types.Tags{"UX"}, u.Interests)
	assert.Nil(t, u.Hobbies)
	assert.Equal(t, "@anna", u.Contact)
}

func TestUpdateUser_EmptyResponseEchoesPayload(t *testing.T) {
	var method string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
	}))
	defer ts.Close()

	p := UpdatePayloadFrom(types.User{Candidate: types.Candidate{
		ID: "u1", Login: "anna", Name: "Anna", SurName: "P", Age: 30, City: "Kazan",
	}})
	p.Skills = []string{"Go"}

	u, err := testClient(ts).UpdateUser(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, types.Tags{"Go"}, u.Skills)
}

// --- likes ---

func TestLike_PostsTarget(t *testing.T) {
	var path string
	var body targetBody
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	}))
	defer ts.Close()

	c := testClient(ts)
	require.NoError(t, c.Like(context.Background(), "u1", "u2"))
	assert.Equal(t, "/user/u1/like", path)
	assert.Equal(t, "u2", body.ID)

	require.NoError(t, c.Dislike(context.Background(), "u1", "u3"))
	assert.Equal(t, "/user/u1/dislike", path)

	assert.Error(t, c.Like(context.Background(), "u1", "u1"))
	assert.Error(t, c.Like(context.Background(), "", "u2"))
}

func TestLikeSummary(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/u1/getLiked":
			fmt.Fprint(w, `[{"id":"a"}]`)
		case "/user/u1/hasLiked":
			fmt.Fprint(w, `[{"id":"b"},{"id":"c"}]`)
		case "/user/u1/getMatches":
			fmt.Fprint(w, `[]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	s, err := testClient(ts).LikeSummary(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, s.Liked, 1)
	assert.Len(t, s.LikedBy, 2)
	assert.Empty(t, s.Matches)
}

func TestLikeSummary_FirstErrorWins(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/user/u1/getMatches" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, `[]`)
	}))
	defer ts.Close()

	_, err := testClient(ts).LikeSummary(context.Background(), "u1")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
}
