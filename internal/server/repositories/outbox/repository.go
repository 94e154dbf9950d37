package outbox

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, event *models.SignupEvent) error
	ListPending(ctx context.Context, limit int) ([]*models.SignupEvent, error)
	MarkDelivered(ctx context.Context, eventID string) error
	MarkAttempted(ctx context.Context, eventID string) error
}
