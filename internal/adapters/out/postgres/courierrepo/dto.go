// Package courierrepo persists the courier aggregate with GORM.
package courierrepo

import (
	"time"

	"deliverydispatch/internal/core/domain/model/courier"
	"deliverydispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO is the row layout of the couriers table.
type CourierDTO struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name        string      `gorm:"type:varchar(255);not null"`
	TransportID int         `gorm:"type:smallint;not null"`
	Location    LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	Status      string      `gorm:"type:varchar(16);not null;index"`
	CreatedAt   time.Time   `gorm:"not null;index"`
	UpdatedAt   time.Time
}

// TableName overrides GORM's default "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

// LocationDTO represents the embedded location coordinates within the courier table.
type LocationDTO struct {
	X kernel.Coordinate `gorm:"type:smallint;not null"`
	Y kernel.Coordinate `gorm:"type:smallint;not null"`
}

func fromDomain(c *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:          c.ID().Value(),
		Name:        c.Name(),
		TransportID: c.Transport().ID(),
		Location: LocationDTO{
			X: c.Location().X(),
			Y: c.Location().Y(),
		},
		Status: c.Status().String(),
	}
}

// toDomain rebuilds the aggregate through RestoreCourier so stored rows go through
// the same validation as new couriers.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromValue(dto.ID)
	if err != nil {
		return nil, err
	}

	transport, err := courier.TransportByID(dto.TransportID)
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewLocation(dto.Location.X, dto.Location.Y)
	if err != nil {
		return nil, err
	}

	status, err := courier.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(id, dto.Name, transport, location, status)
}
