package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands_RejectInvalidIDs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "enrich", args: []string{"enrich", "not-a-uuid"}, wantErr: "invalid restaurant id"},
		{name: "recommend", args: []string{"recommend", "nope"}, wantErr: "invalid user id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs(tt.args)

			err := rootCmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCommands_ArgumentCount(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"enrich"})

	assert.Error(t, rootCmd.Execute())
}

func TestPrintJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printJSON(&out, map[string]int{"count": 2}))
	assert.JSONEq(t, `{"count": 2}`, out.String())
}
