// SprintPulse: Jira Sprint Analytics MCP Server
//
// An MCP server that turns raw Jira sprint data into health analytics:
// commitment, velocity trends, priority focus, team workload and a
// composed sprint dashboard.
//
// Usage:
//
//	sprintpulse serve    # Start MCP server (stdio transport)
//	sprintpulse update   # Update to the latest version
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"sprintpulse/internal/config"
	spserver "sprintpulse/internal/server"
	"sprintpulse/internal/updater"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "update":
		runUpdate()
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("sprintpulse v%s\n", spserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// Background version check — prints to stderr so it doesn't
	// interfere with MCP's stdio transport on stdout.
	go checkForUpdates()

	return server.ServeStdio(spserver.New(cfg))
}

// checkForUpdates runs a best-effort version check and prints a notice
// to stderr if an update is available. Network failures are silent.
func checkForUpdates() {
	result := updater.CheckVersion(spserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  📦 Update available: v%s → v%s\n"+
				"     Run: sprintpulse update\n"+
				"     Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

// runUpdate performs a self-update to the latest version.
func runUpdate() {
	fmt.Fprintf(os.Stderr, "🔍 Checking for updates...\n")

	result := updater.CheckVersion(spserver.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "✅ Already at the latest version (v%s)\n", result.CurrentVersion)
		return
	}

	fmt.Fprintf(os.Stderr, "📦 New version available: v%s → v%s\n", result.CurrentVersion, result.LatestVersion)
	fmt.Fprintf(os.Stderr, "⬇️  Downloading...\n")

	if err := updater.SelfUpdate(spserver.Version); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Update failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "\n   You can download manually from:\n   %s\n", result.ReleaseURL)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "✅ Updated to v%s!\n", result.LatestVersion)
	fmt.Fprintf(os.Stderr, "   Restart sprintpulse to use the new version.\n")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `SprintPulse v%s — Jira Sprint Analytics MCP Server

Usage:
  sprintpulse serve    Start the MCP server (stdio transport)
  sprintpulse update   Update to the latest version

Configuration (environment or sprintpulse.yaml):
  JIRA_URL                  Jira site URL (required)
  JIRA_API_TOKEN            API token or PAT (required)
  JIRA_EMAIL                Account email (Jira Cloud basic auth)
  JIRA_STORY_POINT_FIELD    Story point custom field (default customfield_10016)

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "sprintpulse": {
        "command": "sprintpulse",
        "args": ["serve"],
        "env": {
          "JIRA_URL": "https://your-site.atlassian.net",
          "JIRA_EMAIL": "you@example.com",
          "JIRA_API_TOKEN": "..."
        }
      }
    }
  }
`, spserver.Version)
}
