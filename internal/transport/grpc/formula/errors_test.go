package formula

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
)

func TestMapDomainErrorToGRPC(t *testing.T) {
	assert.NoError(t, mapDomainErrorToGRPC(nil))

	tests := []struct {
		name    string
		err     error
		code    codes.Code
		message string
	}{
		{"wrapped not found", fmt.Errorf("load: %w", domain.ErrProductNotFound), codes.NotFound, "product not found"},
		{"bad attribute", domain.ErrInvalidFieldValue, codes.InvalidArgument, "invalid field value"},
		{"deadline", context.DeadlineExceeded, codes.DeadlineExceeded, "context deadline exceeded"},
		{"store failure is hidden", errors.New("spanner: session pool exhausted"), codes.Internal, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := status.FromError(mapDomainErrorToGRPC(tt.err))
			assert.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.message, st.Message())
		})
	}
}
