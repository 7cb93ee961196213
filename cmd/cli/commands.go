package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	playerID string
	gameSize int
	gameID   int64
)

func init() {
	joinCmd.Flags().StringVar(&playerID, "player", "", "The player id joining the queue")
	joinCmd.Flags().IntVar(&gameSize, "size", 2, "The requested match size (2 or 4)")
	joinCmd.MarkFlagRequired("player")
	leaveCmd.Flags().StringVar(&playerID, "player", "", "The player id leaving the queue")
	leaveCmd.MarkFlagRequired("player")
	stateCmd.Flags().Int64Var(&gameID, "game", 0, "The game id")
	stateCmd.MarkFlagRequired("game")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(leaveCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "List the players waiting in the queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/queue")
	},
}

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join the matchmaking queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/queue/join", map[string]any{
			"player_id": playerID,
			"size":      gameSize,
		})
	},
}

var leaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Leave the matchmaking queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/queue/leave", map[string]any{
			"player_id": playerID,
		})
	},
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List the persisted game records",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/games")
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the live state of one game",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(fmt.Sprintf("/games/state?id=%d", gameID))
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the known players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, body map[string]any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
