package rest

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		err  error
		code int
		msg  string
	}{
		{services.ErrEmailTaken, http.StatusBadRequest, msgEmailTaken},
		{fmt.Errorf("login: %w", common.ErrUnauthorized), http.StatusUnauthorized, msgBadCredentials},
		{services.ErrInvalidTasks, http.StatusBadRequest, msgInvalidTasks},
		{common.ErrNotFound, http.StatusNotFound, msgUserNotFound},
		{boom, http.StatusInternalServerError, msgInternal},
	}
	for _, tt := range tests {
		he := mapError(tt.err)
		assert.Equal(t, tt.code, he.Code, tt.err.Error())
		assert.Equal(t, tt.msg, he.Message)
	}
	assert.ErrorIs(t, mapError(boom).Internal, boom)
}

func TestFailedTag(t *testing.T) {
	v := newValidator()

	assert.Equal(t, "required", failedTag(v.Validate(&registerRequest{Password: "1"})))
	assert.Equal(t, "min", failedTag(v.Validate(&registerRequest{Name: "a", Email: "b", Password: "1"})))
	assert.Equal(t, "", failedTag(v.Validate(&registerRequest{Name: "a", Email: "b", Password: "123456"})))
	assert.Equal(t, "", failedTag(errors.New("other")))
}
