package backup

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Operation names recorded by MockTableService
const (
	OpCreateBackup  = "CreateBackup"
	OpListBackups   = "ListBackups"
	OpDeleteBackup  = "DeleteBackup"
	OpDescribeTable = "DescribeTable"
	OpExport        = "ExportTableSnapshot"
)

// MockCall is one call recorded by MockTableService
type MockCall struct {
	Op  string
	Arg string
}

// MockTableService is an in-memory TableService for testing. It records every
// call and can be told to fail individual operations.
type MockTableService struct {
	mu sync.Mutex

	tableARN string
	backups  []Backup
	calls    []MockCall
	exports  []ExportRequest

	createErr   error
	listErr     error
	describeErr error
	exportErrs  map[string]error
	deleteErrs  map[string]error
}

// NewMockTableService creates a mock whose table resolves to tableARN
func NewMockTableService(tableARN string) *MockTableService {
	return &MockTableService{
		tableARN:   tableARN,
		exportErrs: make(map[string]error),
		deleteErrs: make(map[string]error),
	}
}

// MockBackupARN returns the ARN the mock assigns to a backup
func MockBackupARN(tableName, backupName string) string {
	return fmt.Sprintf("arn:aws:dynamodb:us-east-1:000000000000:table/%s/backup/%s", tableName, backupName)
}

// AddBackup seeds an existing backup
func (m *MockTableService) AddBackup(name, arn string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backups = append(m.backups, Backup{Name: name, ARN: arn})
}

// SetCreateError makes CreateBackup fail with err
func (m *MockTableService) SetCreateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErr = err
}

// SetListError makes ListBackups fail with err
func (m *MockTableService) SetListError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

// SetDescribeError makes DescribeTable fail with err
func (m *MockTableService) SetDescribeError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.describeErr = err
}

// FailExportTo makes exports to bucket fail with err
func (m *MockTableService) FailExportTo(bucket string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exportErrs[bucket] = err
}

// FailDeleteOf makes deleting the backup with arn fail with err
func (m *MockTableService) FailDeleteOf(arn string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteErrs[arn] = err
}

// Backups returns the backups currently held by the mock
func (m *MockTableService) Backups() []Backup {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Backup(nil), m.backups...)
}

// Exports returns every export request that was accepted
func (m *MockTableService) Exports() []ExportRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExportRequest(nil), m.exports...)
}

// CallsTo returns the recorded calls of one operation, in order
func (m *MockTableService) CallsTo(op string) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matching []MockCall
	for _, c := range m.calls {
		if c.Op == op {
			matching = append(matching, c)
		}
	}
	return matching
}

// CreateBackup implements TableService.CreateBackup
func (m *MockTableService) CreateBackup(ctx context.Context, tableName, backupName string) (Backup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Op: OpCreateBackup, Arg: backupName})
	if m.createErr != nil {
		return Backup{}, m.createErr
	}
	if tableName == "" {
		return Backup{}, errors.New("table name is required")
	}

	b := Backup{Name: backupName, ARN: MockBackupARN(tableName, backupName)}
	m.backups = append(m.backups, b)
	return b, nil
}

// ListBackups implements TableService.ListBackups
func (m *MockTableService) ListBackups(ctx context.Context, tableName string) ([]Backup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Op: OpListBackups, Arg: tableName})
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]Backup(nil), m.backups...), nil
}

// DeleteBackup implements TableService.DeleteBackup
func (m *MockTableService) DeleteBackup(ctx context.Context, backupARN string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Op: OpDeleteBackup, Arg: backupARN})
	if err, ok := m.deleteErrs[backupARN]; ok {
		return err
	}

	for i, b := range m.backups {
		if b.ARN == backupARN {
			m.backups = append(m.backups[:i], m.backups[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("backup %s not found", backupARN)
}

// DescribeTable implements TableService.DescribeTable
func (m *MockTableService) DescribeTable(ctx context.Context, tableName string) (TableDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Op: OpDescribeTable, Arg: tableName})
	if m.describeErr != nil {
		return TableDescription{}, m.describeErr
	}
	return TableDescription{Name: tableName, ARN: m.tableARN}, nil
}

// ExportTableSnapshot implements TableService.ExportTableSnapshot
func (m *MockTableService) ExportTableSnapshot(ctx context.Context, req ExportRequest) (ExportResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Op: OpExport, Arg: req.Destination.BucketName})
	if err, ok := m.exportErrs[req.Destination.BucketName]; ok {
		return ExportResult{}, err
	}

	m.exports = append(m.exports, req)
	return ExportResult{
		Destination: req.Destination,
		KeyPrefix:   req.KeyPrefix,
		ExportARN:   fmt.Sprintf("%s/export/%d", m.tableARN, len(m.exports)),
		Status:      "IN_PROGRESS",
	}, nil
}
