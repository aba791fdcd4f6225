package formula

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
)

// errorCodes lists the errors a client can act on. Anything else is Internal
// and its message is not exposed.
var errorCodes = []struct {
	target error
	code   codes.Code
}{
	{domain.ErrProductNotFound, codes.NotFound},
	{domain.ErrInvalidFieldValue, codes.InvalidArgument},
	{context.Canceled, codes.Canceled},
	{context.DeadlineExceeded, codes.DeadlineExceeded},
}

func mapDomainErrorToGRPC(err error) error {
	if err == nil {
		return nil
	}
	for _, e := range errorCodes {
		if errors.Is(err, e.target) {
			return status.Error(e.code, e.target.Error())
		}
	}
	return status.Error(codes.Internal, "internal server error")
}
