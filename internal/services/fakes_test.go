package services

import (
	"context"
	"fmt"
	"sync"
)

// fakeGateway answers every call with reply(call index, request) and records the requests.
type fakeGateway struct {
	mu       sync.Mutex
	requests []CompletionRequest
	reply    func(n int, req CompletionRequest) (string, error)
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		reply: func(n int, _ CompletionRequest) (string, error) {
			return fmt.Sprintf("  response %d  ", n+1), nil
		},
	}
}

func (f *fakeGateway) Complete(_ context.Context, req CompletionRequest) (string, error) {
	f.mu.Lock()
	n := len(f.requests)
	f.requests = append(f.requests, req)
	reply := f.reply
	f.mu.Unlock()
	return reply(n, req)
}

func (f *fakeGateway) Provider() string { return "fake" }

func (f *fakeGateway) calls() []CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]CompletionRequest, len(f.requests))
	copy(out, f.requests)
	return out
}
