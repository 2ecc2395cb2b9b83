package queries

import (
	"context"

	"deliverydispatch/internal/core/domain/model/courier"

	"gorm.io/gorm"
)

// GetBusyCouriersQueryHandler reads the couriers in Busy status.
type GetBusyCouriersQueryHandler struct {
	db *gorm.DB
}

func NewGetBusyCouriersQueryHandler(db *gorm.DB) GetBusyCouriersQueryHandler {
	return GetBusyCouriersQueryHandler{db: db}
}

// Handle returns busy couriers sorted by name.
func (h GetBusyCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetBusyCouriersQuery,
) ([]CourierResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			transport_id,
			status,
			location_x,
			location_y
		FROM couriers
		WHERE status = ?
		ORDER BY name, id
	`, courier.Busy.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCouriers(rows)
}
