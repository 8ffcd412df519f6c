package testsupport

import (
	"context"
	"sync"
)

// StubChat implements the identifier's chat client against canned responses.
type StubChat struct {
	mu sync.Mutex

	// Response is returned for every completion unless Responses has entries
	// left, which are consumed first in order.
	Response  string
	Responses []string
	Err       error

	TextCalls   int
	VisionCalls int
	LastSystem  string
	LastUser    string
}

func (s *StubChat) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TextCalls++
	s.LastSystem = systemPrompt
	s.LastUser = userPrompt
	return s.next()
}

func (s *StubChat) CompleteVisionJSON(ctx context.Context, systemPrompt, userPrompt string, imageJPEG []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.VisionCalls++
	s.LastSystem = systemPrompt
	s.LastUser = userPrompt
	return s.next()
}

func (s *StubChat) next() (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	if len(s.Responses) > 0 {
		resp := s.Responses[0]
		s.Responses = s.Responses[1:]
		return resp, nil
	}
	return s.Response, nil
}
