package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"churnscope/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"app error", ConfigInvalid("bad"), CodeConfigInvalid},
		{"data unavailable", core.NewDataUnavailableError("x.xlsx", nil), CodeDataUnavailable},
		{"schema mismatch", core.NewMissingColumnsError([]string{"Churn"}), CodeSchemaMismatch},
		{"not loaded", core.ErrNotLoaded, CodeNotLoaded},
		{"view not found", core.ErrViewNotFound, CodeNotFound},
		{"plain", stderrors.New("boom"), CodeInternalError},
		{"wrapped app error", fmt.Errorf("ctx: %w", InvalidInput("x")), CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetCode(tt.err))
		})
	}
}

func TestWrapKeepsCodeAndCause(t *testing.T) {
	cause := core.NewMissingColumnsError([]string{"tenure"})

	err := Wrap(cause, "failed to load dataset")

	assert.Equal(t, CodeSchemaMismatch, GetCode(err))
	assert.True(t, stderrors.Is(err, core.ErrSchemaMismatch))
	assert.Contains(t, err.Error(), "failed to load dataset")
	assert.Contains(t, err.Error(), "tenure")
	assert.True(t, IsAppError(err))
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, Wrapf(nil, "nothing %d", 1))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(core.ErrNotLoaded))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(core.NewDataUnavailableError("x", nil)))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(core.ErrViewNotFound))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInput("bad")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(stderrors.New("boom")))
}
