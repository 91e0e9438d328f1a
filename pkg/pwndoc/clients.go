package pwndoc

import (
	"context"

	"github.com/pkg/errors"
)

// clientContactService implements the ClientContactService interface
type clientContactService struct {
	client *Client
}

// List retrieves all client contacts
func (s *clientContactService) List(ctx context.Context) ([]*ClientContact, error) {
	raw, err := s.client.Get(ctx, "/clients")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list clients")
	}

	var contacts []*ClientContact
	if err := unmarshalDatas(raw, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// Create creates a client contact
func (s *clientContactService) Create(ctx context.Context, fields map[string]interface{}) (*ClientContact, error) {
	raw, err := s.client.Post(ctx, "/clients", fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create client")
	}

	contact := &ClientContact{}
	if err := unmarshalDatas(raw, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// Update updates a client contact
func (s *clientContactService) Update(ctx context.Context, clientID string, fields map[string]interface{}) (*ClientContact, error) {
	raw, err := s.client.Put(ctx, "/clients/"+clientID, fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update client")
	}

	contact := &ClientContact{}
	if err := unmarshalDatas(raw, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// Delete deletes a client contact
func (s *clientContactService) Delete(ctx context.Context, clientID string) error {
	if _, err := s.client.Delete(ctx, "/clients/"+clientID); err != nil {
		return errors.Wrap(err, "failed to delete client")
	}
	return nil
}
