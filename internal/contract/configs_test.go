package contract

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/repostat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:       DefaultResultLimit,
		Output:      "text",
		Color:       "yes",
		RepoPathStr: ".",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
		setupMock   func(*MockGitClient, string) // Pass the expected working directory
	}{
		{
			name:        "valid minimal config",
			mutate:      func(*ConfigRawInput) {},
			expectError: false,
			setupMock: func(mock *MockGitClient, workDir string) {
				mock.On("GetRepoRoot", context.Background(), workDir).Return("/mock/repo/root", nil)
			},
		},
		{
			name: "valid date window",
			mutate: func(in *ConfigRawInput) {
				in.Start = "2024-01-01"
				in.End = "2024-12-31"
			},
			expectError: false,
			setupMock: func(mock *MockGitClient, workDir string) {
				mock.On("GetRepoRoot", context.Background(), workDir).Return("/mock/repo/root", nil)
			},
		},
		{
			name:        "malformed start date",
			mutate:      func(in *ConfigRawInput) { in.Start = "2024/01/01" },
			expectError: true,
			setupMock:   nil, // No mock setup needed since validation fails early
		},
		{
			name: "start after end",
			mutate: func(in *ConfigRawInput) {
				in.Start = "2024-06-01"
				in.End = "2024-01-01"
			},
			expectError: true,
		},
		{
			name:        "invalid output",
			mutate:      func(in *ConfigRawInput) { in.Output = "yaml" },
			expectError: true,
		},
		{
			name:        "parquet without file",
			mutate:      func(in *ConfigRawInput) { in.Output = "parquet" },
			expectError: true,
		},
		{
			name:        "limit too large",
			mutate:      func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 },
			expectError: true,
		},
		{
			name:        "zero limit",
			mutate:      func(in *ConfigRawInput) { in.Limit = 0 },
			expectError: true,
		},
		{
			name:        "invalid color",
			mutate:      func(in *ConfigRawInput) { in.Color = "maybe" },
			expectError: true,
		},
		{
			name:        "invalid backend",
			mutate:      func(in *ConfigRawInput) { in.StoreBackend = "redis" },
			expectError: true,
		},
		{
			name:        "mysql without connection",
			mutate:      func(in *ConfigRawInput) { in.StoreBackend = "mysql" },
			expectError: true,
		},
		{
			name: "not a repository",
			mutate: func(*ConfigRawInput) {
			},
			expectError: true,
			setupMock: func(mock *MockGitClient, workDir string) {
				mock.On("GetRepoRoot", context.Background(), workDir).Return("", errors.New("repository does not exist"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := &MockGitClient{}
			workDir, err := filepath.Abs(".")
			require.NoError(t, err)

			if tt.setupMock != nil {
				tt.setupMock(mockClient, workDir)
			}

			input := validInput()
			tt.mutate(input)

			cfg := &Config{}
			err = ProcessAndValidate(context.Background(), cfg, mockClient, input)

			if tt.expectError {
				assert.Error(t, err, "ProcessAndValidate should return an error for %s", tt.name)
			} else {
				assert.NoError(t, err, "ProcessAndValidate should not return an error for %s", tt.name)
				assert.Equal(t, input.Limit, cfg.ResultLimit)
				assert.Equal(t, "/mock/repo/root", cfg.RepoPath)
				assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
			}

			if tt.setupMock != nil {
				mockClient.AssertExpectations(t)
			}
		})
	}
}

func TestProcessAndValidateDateRange(t *testing.T) {
	mockClient := &MockGitClient{}
	workDir, err := filepath.Abs(".")
	require.NoError(t, err)
	mockClient.On("GetRepoRoot", context.Background(), workDir).Return(workDir, nil)

	input := validInput()
	input.Start = "2024-01-01"
	input.End = "2024-01-31"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(context.Background(), cfg, mockClient, input))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cfg.DateRange.Start)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), cfg.DateRange.End)
}

func TestProcessAndValidateDateErrorSkipsGit(t *testing.T) {
	mockClient := &MockGitClient{}
	input := validInput()
	input.End = "not-a-date"

	err := ProcessAndValidate(context.Background(), &Config{}, mockClient, input)
	var dateErr *DateParseError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "end", dateErr.Field)
	mockClient.AssertNotCalled(t, "GetRepoRoot")
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite ignores conn", schema.SQLiteBackend, "", false},
		{"none ignores conn", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/repostat", false},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@localhost/repostat", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=repostat", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=repostat", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, schema.SQLiteBackend, b)

	b, err = ParseBackend("PostgreSQL")
	require.NoError(t, err)
	assert.Equal(t, schema.PostgreSQLBackend, b)

	_, err = ParseBackend("mongo")
	assert.Error(t, err)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{RepoPath: "/a", ResultLimit: 3}
	clone := cfg.Clone()
	clone.RepoPath = "/b"
	assert.Equal(t, "/a", cfg.RepoPath)
	assert.Equal(t, 3, clone.ResultLimit)
}

func TestProcessProfilingConfig(t *testing.T) {
	p := &ProfileConfig{}
	ProcessProfilingConfig(p, "")
	assert.False(t, p.Enabled)

	ProcessProfilingConfig(p, "run")
	assert.True(t, p.Enabled)
	assert.Equal(t, "run", p.Prefix)
}
