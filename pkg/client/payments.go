package client

import (
	"context"
	"fmt"
)

// PaymentService generates and decodes BySquare payments
type PaymentService struct {
	client *Client
}

// Generate encodes a payment and returns the BySquare payload plus a
// QR code PNG data URL. Works both authenticated (account ledger) and
// anonymous (per-IP quota).
func (s *PaymentService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var resp GenerateResponse
	if err := s.client.doRequest(ctx, "POST", "/api/v1/payments/generate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Decode parses a BySquare payload back into its payment fields
func (s *PaymentService) Decode(ctx context.Context, payload string) (*DecodedPayment, error) {
	req := map[string]string{"payload": payload}

	var resp DecodedPayment
	if err := s.client.doRequest(ctx, "POST", "/api/v1/payments/decode", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get returns one generation from the caller's history
func (s *PaymentService) Get(ctx context.Context, id string) (*Generation, error) {
	var g Generation
	if err := s.client.doRequest(ctx, "GET", "/api/v1/payments/"+id, nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns a page of the caller's generation history, newest first
func (s *PaymentService) List(ctx context.Context, limit, offset int) (*GenerationList, error) {
	path := fmt.Sprintf("/api/v1/payments?limit=%d&offset=%d", limit, offset)

	var resp GenerationList
	if err := s.client.doRequest(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
