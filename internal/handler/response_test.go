package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dogogdfive/flaunt-lol-sub003/internal/core"
)

func TestFail_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
	}{
		{core.NotFound("auction not found"), http.StatusNotFound},
		{core.Unauthenticated("sign in to chat"), http.StatusUnauthorized},
		{core.Forbidden("account is banned from chat"), http.StatusForbidden},
		{core.InvalidState("chat only available while live"), http.StatusConflict},
		{core.InvalidInput("message is too long"), http.StatusBadRequest},
		{core.RateLimited("slow down"), http.StatusTooManyRequests},
		{core.Transient("store unavailable", errors.New("dial tcp")), http.StatusInternalServerError},
		{errors.New("untyped"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Fail(c, tc.err)
		if w.Code != tc.status {
			t.Fatalf("err=%v status=%d want=%d", tc.err, w.Code, tc.status)
		}

		var body apiResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if body.Code != tc.status {
			t.Fatalf("body code=%d want=%d", body.Code, tc.status)
		}
		if body.Message == "" {
			t.Fatalf("empty message for %v", tc.err)
		}
	}
}

func TestFail_UntypedErrorHidesDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, errors.New("pq: relation auctions does not exist"))

	var body apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.Message != "internal error" {
		t.Fatalf("message=%q want generic", body.Message)
	}
}
