package exports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MockObjectStore is a mock implementation of ObjectStore for testing
type MockObjectStore struct {
	files      []ObjectStoreFile
	contents   map[string][]byte
	bucketName string
	err        error
}

// NewMockObjectStore creates a new mock object store
func NewMockObjectStore(bucketName string) *MockObjectStore {
	return &MockObjectStore{
		bucketName: bucketName,
		contents:   make(map[string][]byte),
	}
}

// AddFile adds a file to the mock store
func (m *MockObjectStore) AddFile(key string, lastModified time.Time, content []byte) {
	m.files = append(m.files, ObjectStoreFile{
		Key:          key,
		LastModified: lastModified,
		Size:         int64(len(content)),
	})
	m.contents[key] = content
}

// SetError configures the mock to fail every call with message
func (m *MockObjectStore) SetError(message string) {
	m.err = errors.New(message)
}

// ListFiles implements ObjectStore.ListFiles
func (m *MockObjectStore) ListFiles(ctx context.Context, prefix string) ([]ObjectStoreFile, error) {
	if m.err != nil {
		return nil, m.err
	}

	var matchingFiles []ObjectStoreFile
	for _, file := range m.files {
		if strings.HasPrefix(file.Key, prefix) {
			matchingFiles = append(matchingFiles, file)
		}
	}
	return matchingFiles, nil
}

// DownloadFile implements ObjectStore.DownloadFile
func (m *MockObjectStore) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	content, ok := m.contents[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return content, nil
}

// GetBucketName implements ObjectStore.GetBucketName
func (m *MockObjectStore) GetBucketName() string {
	return m.bucketName
}

// Close implements ObjectStore.Close
func (m *MockObjectStore) Close() error {
	return nil
}
