package posapi

import (
	"context"
	"sync"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// MockClient implements Client with a fixed snapshot and records submissions.
type MockClient struct {
	mu          sync.RWMutex
	snapshot    backoffice.Snapshot
	submissions []backoffice.Submission
	err         error
}

// NewMockClient builds a mock backend serving a copy of snapshot.
func NewMockClient(snapshot *backoffice.Snapshot) *MockClient {
	return &MockClient{snapshot: *backoffice.NormalizeSnapshot(cloneSnapshot(snapshot))}
}

// FailWith makes every call return err until cleared with nil.
func (c *MockClient) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// FetchSnapshot returns a copy of the configured snapshot.
func (c *MockClient) FetchSnapshot(context.Context) (*backoffice.Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return nil, c.err
	}
	return cloneSnapshot(&c.snapshot), nil
}

// SubmitForm records the submission.
func (c *MockClient) SubmitForm(_ context.Context, submission backoffice.Submission) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.submissions = append(c.submissions, submission)
	return nil
}

// Submissions returns the recorded submissions in arrival order.
func (c *MockClient) Submissions() []backoffice.Submission {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]backoffice.Submission(nil), c.submissions...)
}

func cloneSnapshot(s *backoffice.Snapshot) *backoffice.Snapshot {
	if s == nil {
		return &backoffice.Snapshot{}
	}
	out := *s
	out.Products = append([]backoffice.Product(nil), s.Products...)
	out.Users = append([]backoffice.User(nil), s.Users...)
	out.Transactions = append([]backoffice.Transaction(nil), s.Transactions...)
	out.Applicants = append([]backoffice.Applicant(nil), s.Applicants...)
	return &out
}
