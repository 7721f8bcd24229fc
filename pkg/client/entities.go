package client

import (
	"context"
	"fmt"
	"net/http"
)

// FAQStore manages FAQ entries.
type FAQStore struct{ *store[FAQ] }

// JobStore manages job postings.
type JobStore struct{ *store[Job] }

// ProgramStore manages study programs.
type ProgramStore struct{ *store[Program] }

// UserStore manages admin accounts.
type UserStore struct{ *store[User] }

// ContactStore manages inquiries. Submit works without a session.
type ContactStore struct{ *store[Contact] }

// Submit sends a public inquiry.
func (s *ContactStore) Submit(ctx context.Context, fields map[string]any) (Contact, error) {
	return s.Create(ctx, fields, nil)
}

// Resolve marks an inquiry handled by the given admin.
func (s *ContactStore) Resolve(ctx context.Context, id, resolverID uint) (Contact, error) {
	var contact Contact
	path := fmt.Sprintf("%s/%d/resolve/%d", s.path, id, resolverID)
	if err := s.c.do(ctx, http.MethodPatch, path, "", nil, s.singular, &contact); err != nil {
		return contact, err
	}
	s.invalidateAndRefetch(ctx)
	return contact, nil
}
