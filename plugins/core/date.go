package core

import (
	"context"
	"fmt"
	"time"

	"github.com/dop251/goja"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"
	"github.com/va6996/mountvacation-mcp/log"
	"github.com/va6996/mountvacation-mcp/tools"
)

// DateInput defines the input for the date tool
type DateInput struct {
	Expression string `json:"expression"`
}

// DateResult is what calculate_date returns: the evaluated instant plus the
// YYYY-MM-DD form the search tools expect.
type DateResult struct {
	Date    string `json:"date"`
	ISO     string `json:"iso"`
	Weekday string `json:"weekday"`
}

// DateTool evaluates JavaScript date expressions
type DateTool struct {
	Now func() time.Time
}

// NewDateTool creates a new DateTool and registers it
func NewDateTool(registry *tools.Registry) *DateTool {
	t := &DateTool{
		Now: time.Now,
	}

	if registry == nil {
		return t
	}

	registry.Register(t.Definition(), func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		expression, err := cast.ToStringE(args["expression"])
		if err != nil || expression == "" {
			return nil, fmt.Errorf("missing expression")
		}
		return t.Execute(ctx, &DateInput{Expression: expression})
	})

	return t
}

func (t *DateTool) Name() string {
	return "calculate_date"
}

func (t *DateTool) Description() string {
	return `Executes a JavaScript expression to calculate dates, e.g. to turn "next Saturday" into arrival/departure dates. Variable 'now' holds the current timestamp (milliseconds).
Return a Date object or ISO string. The last expression is the return value.
Examples:
- Next Saturday: "var d = new Date(now); d.setDate(d.getDate() + ((6 - d.getDay() + 7) % 7 || 7)); d"
- One week from today: "new Date(now + 7 * 86400000)"`
}

// Definition is the MCP schema of the tool.
func (t *DateTool) Definition() mcp.Tool {
	return mcp.NewTool(t.Name(),
		mcp.WithDescription(t.Description()),
		mcp.WithString("expression", mcp.Required(), mcp.Description("JavaScript expression evaluating to a Date or ISO string")),
	)
}

func (t *DateTool) Execute(ctx context.Context, input *DateInput) (*DateResult, error) {
	if input == nil {
		return nil, fmt.Errorf("input is required")
	}
	log.Debugf(ctx, "DateTool: executing expression: %s", input.Expression)

	vm := goja.New()
	if err := vm.Set("now", t.Now().UnixMilli()); err != nil {
		return nil, fmt.Errorf("failed to set 'now': %w", err)
	}

	val, err := vm.RunString(input.Expression)
	if err != nil {
		log.Debugf(ctx, "DateTool: RunString error: %v", err)
		return nil, fmt.Errorf("js execution failed: %w", err)
	}

	exported := val.Export()
	if exported == nil {
		return nil, fmt.Errorf("result is null or undefined")
	}

	// goja exports JS Date as time.Time
	if d, ok := exported.(time.Time); ok {
		return newDateResult(d), nil
	}

	if str, ok := exported.(string); ok {
		if d, err := time.Parse(time.RFC3339, str); err == nil {
			return newDateResult(d), nil
		}
		if d, err := time.Parse("2006-01-02", str); err == nil {
			return newDateResult(d), nil
		}
	}

	return nil, fmt.Errorf("result is not a valid Date object or ISO string")
}

func newDateResult(d time.Time) *DateResult {
	d = d.UTC()
	return &DateResult{
		Date:    d.Format("2006-01-02"),
		ISO:     d.Format(time.RFC3339),
		Weekday: d.Weekday().String(),
	}
}
