package rank

import "context"

// QueryEncoder vectorizes the live query into a unit-length vector.
type QueryEncoder interface {
	EncodeQuery(ctx context.Context, query string) ([]float32, error)
}
