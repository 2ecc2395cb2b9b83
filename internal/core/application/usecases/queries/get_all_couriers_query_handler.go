package queries

import (
	"context"
	"database/sql"

	"deliverydispatch/internal/core/domain/model/courier"
	"deliverydispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAllCouriersQueryHandler retrieves all courier information from the database.
// Uses direct SQL queries for read performance in the CQRS pattern.
//
// Example:
//
//	handler := NewGetAllCouriersQueryHandler(db)
//	couriers, err := handler.Handle(ctx, NewGetAllCouriersQuery())
type GetAllCouriersQueryHandler struct {
	db *gorm.DB
}

// NewGetAllCouriersQueryHandler creates a handler for courier retrieval queries.
func NewGetAllCouriersQueryHandler(db *gorm.DB) GetAllCouriersQueryHandler {
	return GetAllCouriersQueryHandler{db: db}
}

// Handle returns all couriers sorted by name.
func (h GetAllCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetAllCouriersQuery,
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
		ORDER BY name, id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCouriers(rows)
}

func scanCouriers(rows *sql.Rows) ([]CourierResponse, error) {
	couriers := make([]CourierResponse, 0)

	for rows.Next() {
		var response CourierResponse
		var id uuid.UUID
		var transportID int
		var locationX, locationY int8

		if err := rows.Scan(
			&id,
			&response.Name,
			&transportID,
			&response.Status,
			&locationX,
			&locationY,
		); err != nil {
			return nil, err
		}

		courierID, err := kernel.UUIDFromValue(id)
		if err != nil {
			return nil, err
		}
		response.ID = courierID

		transport, err := courier.TransportByID(transportID)
		if err != nil {
			return nil, err
		}
		response.Transport = transport.Name()

		location, err := kernel.NewLocation(
			kernel.Coordinate(locationX),
			kernel.Coordinate(locationY),
		)
		if err != nil {
			return nil, err
		}
		response.Location = location

		couriers = append(couriers, response)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return couriers, nil
}
