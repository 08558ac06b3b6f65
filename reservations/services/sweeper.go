package services

import (
	"context"
	"time"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/db/models"
	"rental-marketplace-backend/internal/tasks"
	"rental-marketplace-backend/utils"
	ws "rental-marketplace-backend/websocket"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Retry configuration for a failed sweep
const sweepMaxRetries = 3
const sweepRetryDelay = 30 * time.Second

// ExpirySweeper periodically expires stale quotation holds. Each sweep
// is idempotent: a hold is only transitioned once, so overlapping or
// repeated runs cannot double-release stock.
type ExpirySweeper struct {
	service     *ReservationService
	asynqClient *asynq.Client
	hub         *ws.Hub
	cron        *cron.Cron
}

func NewExpirySweeper(service *ReservationService, asynqClient *asynq.Client, hub *ws.Hub) *ExpirySweeper {
	return &ExpirySweeper{
		service:     service,
		asynqClient: asynqClient,
		hub:         hub,
		cron:        cron.New(),
	}
}

// Start schedules the sweep to run every minute with retries.
func (s *ExpirySweeper) Start() {
	s.cron.AddFunc("@every 1m", func() {
		var retries int
		for retries < sweepMaxRetries {
			err := s.SweepOnce(context.Background())
			if err == nil {
				return
			}
			config.Logger.Error("Expiry sweep failed",
				zap.Error(err),
				zap.Int("attempt", retries+1))
			retries++
			time.Sleep(sweepRetryDelay)
		}
		config.Logger.Error("Expiry sweep failed after retries",
			zap.Int("retries", retries))
	})
	s.cron.Start()
	config.Logger.Info("Reservation expiry sweeper started")
}

// Stop halts the schedule; a sweep already in flight finishes.
func (s *ExpirySweeper) Stop() {
	s.cron.Stop()
}

// SweepOnce expires every stale hold and fans out the follow-up work:
// cache invalidation, owner notification and websocket broadcast.
func (s *ExpirySweeper) SweepOnce(ctx context.Context) error {
	expired, err := s.service.ExpireStale(ctx)
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	config.Logger.Info("Expired stale reservation holds",
		zap.Int("count", len(expired)))

	for _, reservation := range expired {
		utils.InvalidateProductAvailability(reservation.ProductID)

		if s.asynqClient != nil {
			task, err := tasks.NewReservationExpiredTask(tasks.ReservationExpiredPayload{
				ReservationID: reservation.ID,
				ProductID:     reservation.ProductID,
				SourceType:    string(reservation.SourceType),
				SourceID:      reservation.SourceID,
				Quantity:      reservation.Quantity,
				OwnerEmail:    reservation.CreatedBy,
				ExpiredAt:     time.Now().UTC(),
			})
			if err != nil {
				config.Logger.Error("Failed to build expiry task", zap.Error(err))
			} else if _, err := s.asynqClient.Enqueue(task); err != nil {
				config.Logger.Error("Failed to enqueue expiry task",
					zap.Error(err),
					zap.String("reservation_id", reservation.ID.String()))
			}
		}

		if s.hub != nil {
			s.hub.BroadcastToProduct(reservation.ProductID.String(), ws.WebSocketMessage{
				Type: ws.MessageTypeReservationExpired,
				Payload: map[string]interface{}{
					"reservation_id": reservation.ID,
					"product_id":     reservation.ProductID,
					"quantity":       reservation.Quantity,
					"status":         models.ExpiredReservationStatus,
				},
				Timestamp: time.Now(),
				ProductID: reservation.ProductID.String(),
			})
		}
	}

	return nil
}
