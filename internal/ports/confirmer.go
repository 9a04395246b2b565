package ports

import "context"

type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}
