package client

import "context"

// BillingService purchases limit upgrades and reads the audit trail
type BillingService struct {
	client *Client
}

type purchaseRequest struct {
	PaymentRef string `json:"payment_ref,omitempty"`
}

// Options returns the upgrades currently available to the caller
func (s *BillingService) Options(ctx context.Context) ([]*UpgradeOption, error) {
	var options []*UpgradeOption
	if err := s.client.doRequest(ctx, "GET", "/api/v1/billing/options", nil, &options); err != nil {
		return nil, err
	}
	return options, nil
}

// TopUp purchases the next step of the limit staircase. paymentRef is
// the payment provider's charge reference, if any.
func (s *BillingService) TopUp(ctx context.Context, paymentRef string) (*PurchaseResult, error) {
	var resp PurchaseResult
	if err := s.client.doRequest(ctx, "POST", "/api/v1/billing/topup", purchaseRequest{PaymentRef: paymentRef}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Subscribe switches to the starter plan with its flat monthly limit
func (s *BillingService) Subscribe(ctx context.Context, paymentRef string) (*PurchaseResult, error) {
	var resp PurchaseResult
	if err := s.client.doRequest(ctx, "POST", "/api/v1/billing/subscribe", purchaseRequest{PaymentRef: paymentRef}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelSubscription returns to the free plan and the earned staircase
// limit
func (s *BillingService) CancelSubscription(ctx context.Context) (*Usage, error) {
	var u Usage
	if err := s.client.doRequest(ctx, "DELETE", "/api/v1/billing/subscribe", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// History lists the caller's purchases, newest first
func (s *BillingService) History(ctx context.Context) ([]*Purchase, error) {
	var purchases []*Purchase
	if err := s.client.doRequest(ctx, "GET", "/api/v1/billing/history", nil, &purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}
