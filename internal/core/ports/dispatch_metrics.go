package ports

// DispatchMetrics receives counts of the state changes the workflows commit.
type DispatchMetrics interface {
	OrdersAssigned(n int)
	OrdersCompleted(n int)
}
