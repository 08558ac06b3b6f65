package controllers

import (
	"rental-marketplace-backend/orders/repositories"
	reservation_services "rental-marketplace-backend/reservations/services"
	ws "rental-marketplace-backend/websocket"

	"gorm.io/gorm"
)

type OrderController struct {
	OrderRepo          repositories.OrderRepository
	ReservationService *reservation_services.ReservationService
	DB                 *gorm.DB
	Hub                *ws.Hub
}
