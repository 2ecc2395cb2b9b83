package postgres

import (
	"deliverydispatch/internal/adapters/out/postgres/courierrepo"
	"deliverydispatch/internal/adapters/out/postgres/orderrepo"
	"deliverydispatch/internal/adapters/out/postgres/outboxrepo"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the couriers, orders and outbox_messages tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&courierrepo.CourierDTO{}, &orderrepo.OrderDTO{}, &outboxrepo.MessageDTO{})
}
