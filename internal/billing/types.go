package billing

// CheckoutSession статус платежной сессии у провайдера.
type CheckoutSession struct {
	ID            string `json:"id"`
	Status        string `json:"status"`         // open | complete | expired
	PaymentStatus string `json:"payment_status"` // paid | unpaid
	CustomerEmail string `json:"customer_email"`
}

// WebhookPayload тело события платежного вебхука.
// Metadata несет user_uid, проставленный при создании сессии.
type WebhookPayload struct {
	Event  string `json:"event"`
	Object struct {
		ID       string            `json:"id"`
		Status   string            `json:"status"`
		Metadata map[string]string `json:"metadata"`
	} `json:"object"`
}

// События вебхука, влияющие на биллинговый статус.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventPaymentFailed       = "invoice.payment_failed"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)
