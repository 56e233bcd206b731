package firequery_test

import (
	"errors"
	"testing"

	"github.com/smarter-day/firequery"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsNotFoundError(t *testing.T) {
	assert.False(t, firequery.IsNotFoundError(nil))
	assert.True(t, firequery.IsNotFoundError(status.Error(codes.NotFound, "missing")))
	assert.False(t, firequery.IsNotFoundError(errors.New("plain")))
}

func TestIsInvalidQueryError(t *testing.T) {
	assert.False(t, firequery.IsInvalidQueryError(nil))
	assert.True(t, firequery.IsInvalidQueryError(status.Error(codes.InvalidArgument, "bad operator")))
	assert.True(t, firequery.IsInvalidQueryError(status.Error(codes.FailedPrecondition, "index required")))
	assert.False(t, firequery.IsInvalidQueryError(status.Error(codes.NotFound, "missing")))
}
