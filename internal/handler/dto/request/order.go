package request

type ConfirmOrderRequest struct {
	ShippingAddress string `json:"shippingAddress" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
