package port

import (
	"context"
	"vtobot/internal/core/domain"
)

type TryOnGenerator interface {
	// GenerateTryOn submits two normalized images plus generation parameters
	// to the remote try-on model and returns the generated image bytes.
	GenerateTryOn(ctx context.Context, request domain.TryOnRequest) ([]byte, error)
}
