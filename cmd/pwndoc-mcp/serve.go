package main

import (
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/pwndoc-mcp/pwndoc-go/pkg/pwndoc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		server := newServer(client)
		return server.Run(cmd.Context(), &mcp.StdioTransport{})
	},
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the MCP server exposes",
	Run: func(cmd *cobra.Command, args []string) {
		names := make([]string, 0, len(toolDescriptions))
		for name := range toolDescriptions {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%-32s %s\n", name, toolDescriptions[name])
		}
	},
}

// newServer builds the MCP server with every tool registered
func newServer(client *pwndoc.Client) *mcp.Server {
	impl := &mcp.Implementation{
		Name:    "pwndoc",
		Version: pwndoc.Version,
	}

	server := mcp.NewServer(impl, nil)
	registerTools(server, client)
	return server
}
