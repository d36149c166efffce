package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/mountvacation-mcp/tools"
)

func TestDateTool_Execute_Validation(t *testing.T) {
	registry := tools.NewRegistry()

	dt := NewDateTool(registry)
	dt.Now = func() time.Time {
		// Thursday
		return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name      string
		code      string
		want      string
		expectErr bool
	}{
		{
			name: "Valid Date Object",
			code: "new Date('2026-01-02T00:00:00Z')",
			want: "2026-01-02",
		},
		{
			name: "Valid ISO String",
			code: "'2026-01-02T00:00:00Z'",
			want: "2026-01-02",
		},
		{
			name: "Plain Date String",
			code: "'2026-02-14'",
			want: "2026-02-14",
		},
		{
			name:      "Invalid Return Type (Number)",
			code:      "12345",
			expectErr: true,
		},
		{
			name:      "Null Return",
			code:      "null",
			expectErr: true,
		},
		{
			name:      "Undefined Return (no return)",
			code:      "var x = 1;",
			expectErr: true,
		},
		{
			name:      "Syntax Error",
			code:      "new Date(",
			expectErr: true,
		},
		{
			name: "One Week From Now",
			code: "new Date(now + 7 * 86400000)",
			want: "2026-01-08",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := dt.Execute(context.Background(), &DateInput{Expression: tt.code})
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Date)
		})
	}
}

func TestDateTool_Registry(t *testing.T) {
	registry := tools.NewRegistry()
	dt := NewDateTool(registry)
	dt.Now = func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) }

	res, err := registry.ExecuteTool(context.Background(), "calculate_date", map[string]interface{}{
		"expression": "new Date(now + 86400000)",
	})
	require.NoError(t, err)
	out := res.(*DateResult)
	assert.Equal(t, "2026-03-03", out.Date)
	assert.Equal(t, "Tuesday", out.Weekday)

	_, err = registry.ExecuteTool(context.Background(), "calculate_date", map[string]interface{}{})
	assert.ErrorContains(t, err, "missing expression")
}
