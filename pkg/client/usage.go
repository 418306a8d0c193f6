package client

import "context"

// UsageService reads the monthly usage ledger
type UsageService struct {
	client *Client
}

// Get returns the caller's usage snapshot for the current month
func (s *UsageService) Get(ctx context.Context) (*Usage, error) {
	var u Usage
	if err := s.client.doRequest(ctx, "GET", "/api/v1/usage", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CanGenerate checks whether the next generation would be allowed
// without consuming a credit
func (s *UsageService) CanGenerate(ctx context.Context) (*CanGenerate, error) {
	var resp CanGenerate
	if err := s.client.doRequest(ctx, "GET", "/api/v1/usage/can-generate", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
