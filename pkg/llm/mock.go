package llm

import "context"

// MockOracle is a configurable oracle for tests. Set CompleteFunc to control
// replies; the zero value returns an empty reply and nil error.
type MockOracle struct {
	// CompleteFunc is called when Complete is invoked. If nil, returns "".
	CompleteFunc func(ctx context.Context, systemMessage, prompt string) (string, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	// CompleteCalls counts invocations, for verification.
	CompleteCalls int

	// LastPrompt records the most recent prompt, for assertions on prompt
	// composition.
	LastPrompt string
}

// Complete implements Oracle.
func (m *MockOracle) Complete(ctx context.Context, systemMessage, prompt string) (string, error) {
	m.CompleteCalls++
	m.LastPrompt = prompt
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemMessage, prompt)
	}
	return "", nil
}

// Model implements Oracle.
func (m *MockOracle) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

var _ Oracle = (*MockOracle)(nil)
