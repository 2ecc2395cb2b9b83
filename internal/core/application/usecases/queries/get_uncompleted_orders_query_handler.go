package queries

import (
	"context"

	"deliverydispatch/internal/core/domain/model/kernel"
	"deliverydispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUncompletedOrdersQueryHandler retrieves orders pending delivery from the database.
type GetUncompletedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUncompletedOrdersQueryHandler creates a handler for pending order queries.
func NewGetUncompletedOrdersQueryHandler(db *gorm.DB) GetUncompletedOrdersQueryHandler {
	return GetUncompletedOrdersQueryHandler{db: db}
}

// Handle returns Created and Assigned orders, oldest first.
func (h GetUncompletedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUncompletedOrdersQuery,
) ([]GetUncompletedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetUncompletedOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			courier_id,
			location_x,
			location_y
		FROM orders
		WHERE status <> ?
		ORDER BY created_at, id
	`, order.Completed.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var response GetUncompletedOrdersQueryResponse
		var id uuid.UUID
		var courierID uuid.NullUUID
		var locationX, locationY int8

		if err = rows.Scan(
			&id,
			&response.Status,
			&courierID,
			&locationX,
			&locationY,
		); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromValue(id)
		if idErr != nil {
			return nil, idErr
		}
		response.ID = orderID

		if courierID.Valid {
			cID, cErr := kernel.UUIDFromValue(courierID.UUID)
			if cErr != nil {
				return nil, cErr
			}
			response.CourierID = &cID
		}

		location, locErr := kernel.NewLocation(
			kernel.Coordinate(locationX),
			kernel.Coordinate(locationY),
		)
		if locErr != nil {
			return nil, locErr
		}
		response.Location = location

		orders = append(orders, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
