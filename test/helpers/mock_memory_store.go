package helpers

import (
	"context"
	"encoding/json"
)

// MockMemoryStore is an in-memory MemoryStore for testing. Records are kept
// as JSON so a load never aliases the saved value.
type MockMemoryStore struct {
	Records map[string][]byte // key: namespace
	LoadErr error
	SaveErr error
	Saves   int
}

// NewMockMemoryStore creates an empty mock memory store
func NewMockMemoryStore() *MockMemoryStore {
	return &MockMemoryStore{Records: make(map[string][]byte)}
}

func (m *MockMemoryStore) Load(ctx context.Context, namespace string, dst interface{}) (bool, error) {
	if m.LoadErr != nil {
		return false, m.LoadErr
	}
	raw, ok := m.Records[namespace]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *MockMemoryStore) Save(ctx context.Context, namespace string, src interface{}) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	m.Records[namespace] = raw
	m.Saves++
	return nil
}

// Put stores a raw JSON record
func (m *MockMemoryStore) Put(namespace, raw string) {
	m.Records[namespace] = []byte(raw)
}
