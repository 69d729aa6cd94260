package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckerDefaults(t *testing.T) {
	c := NewChecker(nil)

	assert.True(t, c.Has("student", "answer:submit"))
	assert.False(t, c.Has("student", "question:create"))
	assert.False(t, c.Has("student", "report:export"))

	assert.True(t, c.Has("teacher", "question:import"))
	assert.True(t, c.Has("teacher", "report:export"), "prefix pattern")
	assert.False(t, c.Has("teacher", "answer:submit"))

	assert.True(t, c.Has("admin", "anything:at-all"))
	assert.False(t, c.Has("guest", "course:view"))

	assert.True(t, c.Any("student", "answer:view-all", "answer:view-own"))
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := Require("question:create")(ok)

	for role, want := range map[string]int{
		"":        http.StatusForbidden,
		"student": http.StatusForbidden,
		"teacher": http.StatusNoContent,
		"admin":   http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithRole(context.Background(), role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "role %q", role)
	}
}
