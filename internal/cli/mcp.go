package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/keymap"
)

// MCPOptions holds flags for the mcp command.
type MCPOptions struct {
	*RootOptions
	Keymap string
}

// NewMCPCommand creates the mcp command.
func NewMCPCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MCPOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the calculator as MCP tools over stdio",
		Long: `Expose the calculator over the Model Context Protocol on stdio.

Two tools are served, both stateless: each call evaluates a complete key
script on a fresh calculator.

  calc_eval  - key script to final snapshot
  calc_trace - key script to per-step trace

Example:
  tally mcp`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Keymap, "keymap", "", "CUE keymap profile to overlay")

	return cmd
}

func runMCP(opts *MCPOptions) error {
	km, err := loadKeymap(opts.Keymap)
	if err != nil {
		return err
	}

	s := server.NewMCPServer(
		"tally",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	addCalcEvalTool(s, km)
	addCalcTraceTool(s, km)

	if err := server.ServeStdio(s); err != nil {
		return WrapExitError(ExitCommandError, "mcp server failed", err)
	}
	return nil
}

// evalScriptArg extracts and evaluates the keys argument on a fresh engine.
func evalScriptArg(request mcp.CallToolRequest, km *keymap.Keymap) ([]ScriptStep, engine.Snapshot, error) {
	keys, ok := request.GetArguments()["keys"].(string)
	if !ok || strings.TrimSpace(keys) == "" {
		return nil, engine.Snapshot{}, fmt.Errorf("keys is required")
	}

	eng := engine.New()
	return runScript(strings.Fields(keys), km, func(a engine.Action) (engine.Snapshot, error) {
		return eng.Apply(a), nil
	})
}

// addCalcEvalTool adds the calc_eval tool to the MCP server.
func addCalcEvalTool(s *server.MCPServer, km *keymap.Keymap) {
	tool := mcp.NewTool("calc_eval",
		mcp.WithDescription("Evaluate a calculator key script and return the final snapshot"),
		mcp.WithString("keys",
			mcp.Required(),
			mcp.Description("Whitespace-separated key tokens, e.g. '200 + 10 % ='"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		_, last, err := evalScriptArg(request, km)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
		}

		data, err := json.Marshal(EvalResult{
			Display:   last.Display,
			Secondary: last.SecondaryLine,
			IsError:   last.IsError,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

// addCalcTraceTool adds the calc_trace tool to the MCP server.
func addCalcTraceTool(s *server.MCPServer, km *keymap.Keymap) {
	tool := mcp.NewTool("calc_trace",
		mcp.WithDescription("Evaluate a calculator key script and return the per-step trace"),
		mcp.WithString("keys",
			mcp.Required(),
			mcp.Description("Whitespace-separated key tokens, e.g. '5 + 3 = = ='"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		steps, last, err := evalScriptArg(request, km)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
		}

		data, err := json.Marshal(TraceResult{
			Steps:   steps,
			Display: last.Display,
			IsError: last.IsError,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}
