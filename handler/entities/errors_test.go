package entities

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_CodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, CodeOK},
		{"not found", &NotFoundError{Kind: "type", Target: "public.x"}, CodeNotFound},
		{"invalid app", &ValidationError{Code: CodeInvalidApplication, Reason: "nope"}, CodeInvalidApplication},
		{"invalid type", &ValidationError{Code: CodeInvalidType, Reason: "nope"}, CodeInvalidType},
		{"invalid scheme", &ValidationError{Code: CodeInvalidScheme, Reason: "nope"}, CodeInvalidScheme},
		{"declined", &DeclinedError{Target: "http", AppPath: "/a"}, CodeDeclined},
		{"system", &SystemError{Op: "write", Err: errors.New("boom")}, CodeSystemFailure},
		{"unknown error", errors.New("mystery"), CodeSystemFailure},
		{"wrapped not found", fmt.Errorf("outer: %w", &NotFoundError{Kind: "binding", Target: "x"}), CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func Test_Sentinel_Matching(t *testing.T) {
	assert.ErrorIs(t, &NotFoundError{Kind: "type", Target: "x"}, ErrNotFound)
	assert.ErrorIs(t, &DeclinedError{Target: "http"}, ErrDeclined)
	assert.ErrorIs(t, &SystemError{Op: "op", Err: errors.New("x")}, ErrSystemFailure)
	assert.ErrorIs(t, &ValidationError{Code: CodeInvalidApplication}, ErrInvalidApplication)
	assert.NotErrorIs(t, &ValidationError{Code: CodeInvalidApplication}, ErrInvalidScheme)
}

func Test_SystemError_Unwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := &SystemError{Op: "write bindings", Err: inner}
	assert.ErrorIs(t, err, inner)
}

// Declined messages name the surviving binding when one exists so callers
// can tell "nothing bound" from "previous handler kept".
func Test_DeclinedError_Message(t *testing.T) {
	kept := &DeclinedError{Target: "public.plain-text", AppPath: "/a", Current: "/b"}
	assert.Contains(t, kept.Error(), "/b")

	none := &DeclinedError{Target: "public.plain-text", AppPath: "/a"}
	assert.NotContains(t, none.Error(), "still")
}
