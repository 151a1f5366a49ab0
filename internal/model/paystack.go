package model

const EventChargeSuccess = "charge.success"

type PaystackCustomer struct {
	Email string `json:"email"`
}

type PaystackChargeData struct {
	ID        int64            `json:"id"`
	Reference string           `json:"reference"`
	Status    string           `json:"status"`
	Amount    int64            `json:"amount"`
	Currency  string           `json:"currency"`
	Customer  PaystackCustomer `json:"customer"`
}

type PaystackWebhookEvent struct {
	Event string             `json:"event"`
	Data  PaystackChargeData `json:"data"`
}
