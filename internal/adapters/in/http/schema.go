package http

// Request and response bodies of the REST API.

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type location struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type courierResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Transport string   `json:"transport"`
	Status    string   `json:"status"`
	Location  location `json:"location"`
}

type newCourierRequest struct {
	Name      string `json:"name"      validate:"required,max=255"`
	Transport string `json:"transport" validate:"required"`
}

type createdResponse struct {
	ID string `json:"id"`
}

type orderResponse struct {
	ID        string   `json:"id"`
	Status    string   `json:"status"`
	CourierID *string  `json:"courierId,omitempty"`
	Location  location `json:"location"`
}

type newOrderRequest struct {
	BasketID string `json:"basketId" validate:"required,uuid"`
	Street   string `json:"street"   validate:"required"`
}
