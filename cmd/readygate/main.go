package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/readygate/internal/client"
)

var (
	serverAddr string
	httpURL    string
	transport  string
	authToken  string
	jsonOutput bool

	gateClient client.GateClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("READYGATE_HTTP_URL"); s != "" {
		return s
	}
	if p := activeProfile(); p.URL != "" {
		return p.URL
	}
	return "http://localhost:8080"
}

func defaultServer() string {
	if s := os.Getenv("READYGATE_SERVER"); s != "" {
		return s
	}
	if p := activeProfile(); p.GRPCAddr != "" {
		return p.GRPCAddr
	}
	return "localhost:9090"
}

func defaultToken() string {
	if s := os.Getenv("READYGATE_TOKEN"); s != "" {
		return s
	}
	return activeProfile().Token
}

// connect builds gateClient for commands that talk to a running server.
func connect(cmd *cobra.Command, args []string) error {
	switch transport {
	case "http":
		gateClient = client.NewHTTPClient(httpURL, authToken)
	case "grpc":
		c, err := client.NewGRPCClient(serverAddr, authToken)
		if err != nil {
			return fmt.Errorf("failed to connect to server: %w", err)
		}
		gateClient = c
	default:
		return fmt.Errorf("unknown transport %q (must be http or grpc)", transport)
	}
	return nil
}

func disconnect(cmd *cobra.Command, args []string) {
	if gateClient != nil {
		gateClient.Close()
	}
}

var rootCmd = &cobra.Command{
	Use:          "readygate <command>",
	Short:        "Readiness gate for timed playlist rooms",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", defaultServer(), "gRPC server address")
	rootCmd.PersistentFlags().StringVar(&transport, "transport", "http", "transport protocol (http or grpc)")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for the server")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "gate", Title: "Gate:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Gate
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(emitCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
