// Package mcp exposes a read-only ops surface over the REST API via the
// Model Context Protocol: room listing, room state, and board inspection.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LilConsul/actPoly-monopoly/game/board"
	"github.com/LilConsul/actPoly-monopoly/game/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// GetMCPServer returns the underlying MCP server for stdio or HTTP serving.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"actPoly Monopoly Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`actPoly Monopoly server - ops interface

Read-only tools proxying the REST API of a running game server.

AVAILABLE TOOLS:
- list_rooms: List all live game rooms with phase and seat counts
- room_state: Inspect one room (seats, turn order, connections)
- board_layout: Dump the board tile list served to rooms`),
	)

	c.registerTools()
}

func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List all live game rooms",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "room_state",
		Description: "Get the state of a specific room",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room UUID to inspect",
				},
			},
			Required: []string{"room_id"},
		},
	}, c.handleRoomState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_layout",
		Description: "Get the board layout served to rooms",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Board name (optional, defaults to the configured board)",
				},
			},
		},
	}, c.handleBoardLayout)
}

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int            `json:"count"`
		Rooms []session.Info `json:"rooms"`
	}

	if err := c.apiCall(ctx, "/api/rooms", &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No live rooms."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d live room(s):\n", response.Count)
	for _, room := range response.Rooms {
		fmt.Fprintf(&b, "- %s [%s] seats=%d connections=%d turn=%d\n",
			room.ID, room.Phase, len(room.Seats), room.Connections, room.CurrentTurn)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleRoomState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	roomID, _ := args["room_id"].(string)

	var info session.Info
	if err := c.apiCall(ctx, fmt.Sprintf("/api/rooms/%s", roomID), &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Room %s\n", info.ID)
	fmt.Fprintf(&b, "Board: %s\n", info.Board)
	fmt.Fprintf(&b, "Phase: %s\n", info.Phase)
	fmt.Fprintf(&b, "Connections: %d\n", info.Connections)
	fmt.Fprintf(&b, "Seats (turn order):\n")
	for i, seat := range info.Seats {
		marker := " "
		if info.Phase == "started" && i == info.CurrentTurn {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %d. %s (user %d)\n", marker, i+1, seat.DisplayName, seat.UserID)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleBoardLayout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	name, _ := args["name"].(string)

	path := "/api/board"
	if name != "" {
		path += "?name=" + name
	}

	var layout board.Layout
	if err := c.apiCall(ctx, path, &layout); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Board %q, %d tiles:\n", layout.Name, layout.Len())
	for _, tile := range layout.Tiles {
		switch tile.Type {
		case board.TileProperty:
			fmt.Fprintf(&b, "%2d. %s (%s, $%.0f)\n", tile.Index, tile.Property.Name, tile.Property.Group.Name, tile.Property.Price)
		case board.TileRailway:
			fmt.Fprintf(&b, "%2d. %s (railway, $%.0f)\n", tile.Index, tile.Railway.Name, tile.Railway.Price)
		case board.TileCompany:
			fmt.Fprintf(&b, "%2d. %s (company, $%.0f)\n", tile.Index, tile.Company.Name, tile.Company.Price)
		case board.TileSpecial:
			fmt.Fprintf(&b, "%2d. %s\n", tile.Index, tile.Special.Type)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// apiCall performs a GET against the REST API and decodes the JSON response.
func (c *Client) apiCall(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
