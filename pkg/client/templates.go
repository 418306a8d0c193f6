package client

import (
	"context"
	"fmt"
)

// TemplateService manages reusable payment templates
type TemplateService struct {
	client *Client
}

// List returns the caller's active templates
func (s *TemplateService) List(ctx context.Context) ([]*Template, error) {
	var templates []*Template
	if err := s.client.doRequest(ctx, "GET", "/api/v1/templates", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// Create creates a new payment template
func (s *TemplateService) Create(ctx context.Context, req TemplateRequest) (*Template, error) {
	var t Template
	if err := s.client.doRequest(ctx, "POST", "/api/v1/templates", req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Get returns one template by ID
func (s *TemplateService) Get(ctx context.Context, id int64) (*Template, error) {
	var t Template
	if err := s.client.doRequest(ctx, "GET", fmt.Sprintf("/api/v1/templates/%d", id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update replaces a template's editable fields
func (s *TemplateService) Update(ctx context.Context, id int64, req TemplateRequest) (*Template, error) {
	var t Template
	if err := s.client.doRequest(ctx, "PUT", fmt.Sprintf("/api/v1/templates/%d", id), req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete deactivates a template. Past generations keep referencing it.
func (s *TemplateService) Delete(ctx context.Context, id int64) error {
	return s.client.doRequest(ctx, "DELETE", fmt.Sprintf("/api/v1/templates/%d", id), nil, nil)
}
