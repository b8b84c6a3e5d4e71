package main

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/embedsim/internal/similarity"
)

func TestScanTexts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "one text per line",
			input: "the cat sat\nthe dog ran\n",
			want:  []string{"the cat sat", "the dog ran"},
		},
		{
			name:  "blank lines and whitespace skipped",
			input: "  first  \n\n\t\nsecond\n",
			want:  []string{"first", "second"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "no trailing newline",
			input: "only line",
			want:  []string{"only line"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scanTexts(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteMatrix(t *testing.T) {
	m, err := similarity.Compute([][]float32{{1, 0}, {0, 1}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeMatrix(&buf, m))

	assert.Equal(t, "1.0000\t0.0000\n0.0000\t1.0000\n", buf.String())
}

func TestComputeCmd_RejectsInvalidFlagOverrides(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown metric",
			args:    []string{"--metric", "euclidean"},
			wantErr: "metric",
		},
		{
			name:    "unknown provider",
			args:    []string{"--provider", "bedrock"},
			wantErr: "unknown embedder provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() {
				flagMetric = ""
				flagProvider = ""
				configPath = ""
				rootCmd.SetArgs(nil)
			})

			args := append([]string{"compute", "--config", filepath.Join(t.TempDir(), "missing.yaml")}, tt.args...)
			rootCmd.SetArgs(args)
			rootCmd.SetIn(strings.NewReader("unused\n"))
			rootCmd.SetOut(io.Discard)
			rootCmd.SetErr(io.Discard)

			err := rootCmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestComputeCmd_Flags(t *testing.T) {
	assert.NotNil(t, computeCmd.Flags().Lookup("metric"))
	assert.NotNil(t, computeCmd.Flags().Lookup("provider"))
	assert.NotNil(t, computeCmd.Flags().Lookup("model"))
	assert.NotNil(t, computeCmd.Flags().Lookup("base-url"))
}
