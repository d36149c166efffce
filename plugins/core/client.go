package core

import (
	"github.com/va6996/mountvacation-mcp/tools"
)

// Client manages the core set of tools
type Client struct {
	DateTool     *DateTool
	CurrencyTool *CurrencyTool
}

// NewClient initializes the core plugin and registers its tools
func NewClient(registry *tools.Registry) *Client {
	return &Client{
		DateTool:     NewDateTool(registry),
		CurrencyTool: NewCurrencyTool(registry),
	}
}

