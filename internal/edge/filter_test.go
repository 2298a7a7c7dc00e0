// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package edge_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadia-lms/acadia/internal/edge"
	"github.com/acadia-lms/acadia/internal/platform/apperr"
	"github.com/acadia-lms/acadia/internal/platform/constants"
	"github.com/acadia-lms/acadia/internal/platform/sec"
)

// stubVerifier returns canned verification results.
type stubVerifier struct {
	claims *sec.Claims
	err    error
}

func (s *stubVerifier) Verify(tokenString string) (*sec.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

// recordingHandler captures whether the downstream was reached and with
// which identity header.
type recordingHandler struct {
	called   bool
	identity string
}

func (h *recordingHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	h.called = true
	h.identity = request.Header.Get(constants.HeaderIdentity)
	writer.WriteHeader(http.StatusOK)
}

func validClaims(subject string) *sec.Claims {
	return &sec.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		Roles: []string{"STUDENT"},
	}
}

/*
TestFilter_MissingToken verifies that an unauthenticated request is
rejected before a single byte reaches the downstream handler.
*/
func TestFilter_MissingToken(t *testing.T) {
	downstream := &recordingHandler{}
	handler := edge.Filter(&stubVerifier{claims: validClaims("ada")})(downstream)

	request := httptest.NewRequest(http.MethodGet, "/api/classroom/1", nil)
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, downstream.called, "downstream must not be reached")
}

/*
TestFilter_MalformedAuthorizationHeader covers non-bearer header shapes.
*/
func TestFilter_MalformedAuthorizationHeader(t *testing.T) {
	testCases := []string{
		"Basic dXNlcjpwYXNz",
		"Bearer",
		"Bearer too many parts",
		"justtoken",
	}

	for _, headerValue := range testCases {
		t.Run(headerValue, func(t *testing.T) {
			downstream := &recordingHandler{}
			handler := edge.Filter(&stubVerifier{claims: validClaims("ada")})(downstream)

			request := httptest.NewRequest(http.MethodGet, "/api/task/5", nil)
			request.Header.Set(constants.HeaderAuthorization, headerValue)
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.False(t, downstream.called)
		})
	}
}

/*
TestFilter_RejectedToken verifies both failure kinds abort with 401 and that
the response body is byte-identical for each of them: a caller presenting a
forged token must receive exactly what a caller with an expired one does.
*/
func TestFilter_RejectedToken(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{"invalid signature", apperr.InvalidToken("Token is malformed or has an invalid signature")},
		{"expired token", apperr.TokenExpired("Token has expired")},
	}

	bodies := make(map[string]string)

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			downstream := &recordingHandler{}
			handler := edge.Filter(&stubVerifier{err: testCase.err})(downstream)

			request := httptest.NewRequest(http.MethodGet, "/api/course/9", nil)
			request.Header.Set(constants.HeaderAuthorization, "Bearer some-token")
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.False(t, downstream.called)
			assert.NotContains(t, recorder.Body.String(), apperr.CodeTokenExpired)
			assert.NotContains(t, recorder.Body.String(), apperr.CodeInvalidToken)
			bodies[testCase.name] = recorder.Body.String()
		})
	}

	assert.Equal(t, bodies["invalid signature"], bodies["expired token"],
		"rejection body must not reveal why the token failed")
}

/*
TestFilter_IdentityInjection verifies the verified subject lands in the
trusted header and any client-supplied value is discarded.
*/
func TestFilter_IdentityInjection(t *testing.T) {
	downstream := &recordingHandler{}
	handler := edge.Filter(&stubVerifier{claims: validClaims("ada")})(downstream)

	request := httptest.NewRequest(http.MethodGet, "/api/submission/3", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer good-token")
	// An attacker-controlled identity header must never survive the filter.
	request.Header.Set(constants.HeaderIdentity, "admin")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	require.True(t, downstream.called)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "ada", downstream.identity)
}

/*
TestFilter_AllowList verifies the login, register and refresh endpoints
pass through without a token but still have spoofed identity stripped.
*/
func TestFilter_AllowList(t *testing.T) {
	for _, path := range []string{"/api/user/login", "/api/user/register", "/api/user/refresh", "/health"} {
		t.Run(path, func(t *testing.T) {
			downstream := &recordingHandler{}
			handler := edge.Filter(&stubVerifier{err: apperr.InvalidToken("never called")})(downstream)

			request := httptest.NewRequest(http.MethodPost, path, nil)
			request.Header.Set(constants.HeaderIdentity, "admin")
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			require.True(t, downstream.called)
			assert.Empty(t, downstream.identity, "spoofed identity must be stripped on allow-listed paths")
		})
	}
}

/*
TestAllowListed verifies prefix matching does not over-match sibling paths.
*/
func TestAllowListed(t *testing.T) {
	assert.True(t, edge.AllowListed("/api/user/login"))
	assert.True(t, edge.AllowListed("/api/user/refresh"))
	assert.False(t, edge.AllowListed("/api/user/profile"))
	assert.False(t, edge.AllowListed("/api/user/loginhistory"))
	assert.False(t, edge.AllowListed("/api/classroom"))
}
