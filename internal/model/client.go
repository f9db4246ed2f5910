package model

type Client struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	MobileNumber string  `json:"mobile_number"`
	Email        *string `json:"email,omitempty"`
	Address      *string `json:"address,omitempty"`
}

// ClientSummary pairs a client with all of their work orders.
type ClientSummary struct {
	Client     Client      `json:"client"`
	WorkOrders []WorkOrder `json:"work_orders"`
}
