package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, tokenID string, validity time.Duration) error
	Find(ctx context.Context, tokenID string) (*models.RefreshToken, error)
	Delete(ctx context.Context, tokenID string) error
}
