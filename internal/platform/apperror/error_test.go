package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborworks/cms/internal/platform/apperror"
)

func TestNew(t *testing.T) {
	err := apperror.New(
		apperror.CodeNotFound,
		apperror.BusinessCodeContentNotFound,
		"content not found",
		http.StatusNotFound,
	)

	require.NotNil(t, err)
	assert.Equal(t, apperror.CodeNotFound, err.Code)
	assert.Equal(t, apperror.BusinessCodeContentNotFound, err.BusinessCode)
	assert.Equal(t, "content not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Nil(t, err.Inner)
	assert.Nil(t, err.Details)
}

func TestWrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := apperror.Wrap(
		inner,
		apperror.CodeInternalError,
		apperror.BusinessCodeExternalFailure,
		"profile store unavailable",
		http.StatusInternalServerError,
	)

	assert.Equal(t, "profile store unavailable", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestIs_MatchesByCodePair(t *testing.T) {
	sentinel := apperror.New(
		apperror.CodeConflict,
		apperror.BusinessCodeStateConflict,
		"invalid status transition",
		http.StatusConflict,
	)

	tests := []struct {
		name  string
		err   error
		match bool
	}{
		{
			name: "same codes different message",
			err: apperror.New(
				apperror.CodeConflict,
				apperror.BusinessCodeStateConflict,
				"cannot publish from draft",
				http.StatusConflict,
			),
			match: true,
		},
		{
			name: "same system code different business code",
			err: apperror.New(
				apperror.CodeConflict,
				apperror.BusinessCodeProtectedEntity,
				"cannot delete super admin",
				http.StatusConflict,
			),
			match: false,
		},
		{
			name:  "plain error",
			err:   errors.New("invalid status transition"),
			match: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.match, errors.Is(tt.err, sentinel))
		})
	}
}

func TestWithDetails_DoesNotMutateSentinel(t *testing.T) {
	sentinel := apperror.New(
		apperror.CodeValidationFailed,
		apperror.BusinessCodeValidationFailed,
		"validation failed",
		http.StatusBadRequest,
	)

	detailed := sentinel.WithDetails([]string{"email is invalid", "password too short"})

	assert.Nil(t, sentinel.Details)
	assert.Equal(t, []string{"email is invalid", "password too short"}, detailed.Details)
	assert.ErrorIs(t, detailed, sentinel)
}

func TestFormat(t *testing.T) {
	inner := errors.New("timeout")
	err := apperror.Wrap(
		inner,
		apperror.CodeInternalError,
		apperror.BusinessCodeExternalFailure,
		"identity provider call failed",
		http.StatusInternalServerError,
	)

	plain := fmt.Sprintf("%v", err)
	assert.Equal(t, "identity provider call failed", plain)

	verbose := fmt.Sprintf("%+v", err)
	assert.Contains(t, verbose, "EXTERNAL_FAILURE")
	assert.Contains(t, verbose, "Caused by: timeout")
}
