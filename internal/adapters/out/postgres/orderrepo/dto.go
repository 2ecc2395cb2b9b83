// Package orderrepo persists the order aggregate with GORM.
package orderrepo

import (
	"time"

	"deliverydispatch/internal/core/domain/model/kernel"
	"deliverydispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates,
// indexed for the status scans of the dispatch jobs.
type OrderDTO struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	CourierID *uuid.UUID  `gorm:"type:uuid;index"`
	Location  LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	Status    string      `gorm:"type:varchar(16);not null;index"`
	CreatedAt time.Time   `gorm:"not null;index"`
	UpdatedAt time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// LocationDTO represents the embedded delivery location coordinates within the order table.
type LocationDTO struct {
	X kernel.Coordinate `gorm:"type:smallint;not null"`
	Y kernel.Coordinate `gorm:"type:smallint;not null"`
}

func fromDomain(o *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := o.CourierID(); id != nil {
		raw := id.Value()
		courierID = &raw
	}

	return OrderDTO{
		ID:        o.ID().Value(),
		CourierID: courierID,
		Location: LocationDTO{
			X: o.Location().X(),
			Y: o.Location().Y(),
		},
		Status: o.Status().String(),
	}
}

// toDomain reconstructs the aggregate including status and courier assignment using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromValue(dto.ID)
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromValue(*dto.CourierID)
		if courierErr != nil {
			return nil, courierErr
		}

		courierID = &cID
	}

	loc, err := kernel.NewLocation(dto.Location.X, dto.Location.Y)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, loc, status, courierID)
}
