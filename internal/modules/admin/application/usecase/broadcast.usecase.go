package usecase

import (
	"context"
	"time"

	"resortAdmin/internal/modules/admin/application/port"
	"resortAdmin/internal/modules/admin/domain"
)

// BroadcastUseCase announces upstream changes to every connected view.
type BroadcastUseCase struct {
	broadcaster port.Broadcaster
	now         func() time.Time
}

func NewBroadcastUseCase(b port.Broadcaster) *BroadcastUseCase {
	return &BroadcastUseCase{broadcaster: b, now: time.Now}
}

func (uc *BroadcastUseCase) Execute(ctx context.Context, event domain.ChangeEvent) {
	if uc == nil || uc.broadcaster == nil {
		return
	}
	msg := domain.BuildChangeMessage(event, uc.now())
	if msg.Topic == "" {
		return
	}
	uc.broadcaster.Broadcast(ctx, msg)
}
