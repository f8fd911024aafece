package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConvertArgs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "results.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"results":[]}`), 0o644))

	tests := []struct {
		name    string
		options RunOptionsConvert
		args    []string
		wantErr string
	}{
		{
			name:    "missing everything",
			options: RunOptionsConvert{},
			wantErr: "missing required flags: input, output, scanner-version",
		},
		{
			name:    "unexpected positional arguments",
			options: RunOptionsConvert{InputPath: input, OutputPath: filepath.Join(dir, "out.sarif"), ScannerVersion: "1"},
			args:    []string{"extra"},
			wantErr: "unexpected positional arguments: extra",
		},
		{
			name:    "input is a directory",
			options: RunOptionsConvert{InputPath: dir, OutputPath: filepath.Join(dir, "out.sarif"), ScannerVersion: "1"},
			wantErr: "invalid input: path \"" + dir + "\" is a directory, not a file",
		},
		{
			name:    "output overwrites input",
			options: RunOptionsConvert{InputPath: input, OutputPath: input, ScannerVersion: "1"},
			wantErr: "'output' must differ from 'input'",
		},
		{
			name:    "valid",
			options: RunOptionsConvert{InputPath: input, OutputPath: filepath.Join(dir, "out.sarif"), ScannerVersion: `"22.06.179"`},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := tc.options
			err := validateConvertArgs(&opts, tc.args)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.wantErr, err.Error())
		})
	}
}
