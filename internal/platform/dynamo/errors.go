package dynamo

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"

	"github.com/parksops/ar-api/internal/shared"
)

// Classify maps DynamoDB errors onto the shared taxonomy. A failed
// conditional check means the target key does not exist; everything else is
// surfaced as a store fault with the original error preserved in the chain.
// Callers must not retry: partial updates are not safely idempotent.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var api smithy.APIError
	if errors.As(err, &api) && api.ErrorCode() == "ConditionalCheckFailedException" {
		return fmt.Errorf("%w: %v", shared.ErrNotFound, err)
	}
	return fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
}
