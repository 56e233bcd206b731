package firequery

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// IsNotFoundError checks if the provided error corresponds to a
// 'NotFound' gRPC status code from the Firestore client.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return status.Code(err) == codes.NotFound
}

// IsInvalidQueryError reports whether the client or server rejected the
// query itself (bad operator combination, missing index field, etc.).
func IsInvalidQueryError(err error) bool {
	if err == nil {
		return false
	}
	switch status.Code(err) {
	case codes.InvalidArgument, codes.FailedPrecondition:
		return true
	}
	return false
}

func grpcCode(err error) string {
	return status.Code(err).String()
}
