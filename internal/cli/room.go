package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room and match commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomLeaveCmd())
	cmd.AddCommand(newRoomReconnectCmd())
	cmd.AddCommand(newRoomReadyCmd())
	cmd.AddCommand(newRoomSubmitCmd())
	cmd.AddCommand(newRoomRestartCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			if name != "" {
				req["display_name"] = name
			}

			var result Room

			if err := client.Post("/api/v1/rooms", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (default: session name)")

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get room details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Get(fmt.Sprintf("/api/v1/rooms/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			if name != "" {
				req["display_name"] = name
			}

			var result Room

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/join", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (default: session name)")

	return cmd
}

func newRoomLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <code>",
		Short: "Leave a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/leave", code), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Left room %s", code))
			return nil
		},
	}
}

func newRoomReconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconnect <code>",
		Short: "Reconnect to a room after a disconnect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/reconnect", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomReadyCmd() *cobra.Command {
	var notReady bool

	cmd := &cobra.Command{
		Use:   "ready <code>",
		Short: "Set your ready flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]bool{"ready": !notReady}
			var result ReadyResult

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/ready", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&notReady, "clear", false, "Clear the ready flag instead of setting it")

	return cmd
}

func newRoomSubmitCmd() *cobra.Command {
	var words []string
	var totalScore int

	cmd := &cobra.Command{
		Use:   "submit <code>",
		Short: "Submit your round result",
		Long: `Submit your found words and total score for the current round.

Each --word takes the form word:points, with an optional :pangram suffix:

  spellduel room submit 1234 --word ocean:5 --word beacons:21:pangram --score 26`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed := make([]map[string]any, 0, len(words))
			for _, spec := range words {
				w, err := parseWordSpec(spec)
				if err != nil {
					return err
				}
				parsed = append(parsed, w)
			}

			req := map[string]any{
				"words":       parsed,
				"total_score": totalScore,
			}
			var result SubmissionAck

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/submit", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&words, "word", nil, "Word as word:points[:pangram] (repeatable)")
	cmd.Flags().IntVar(&totalScore, "score", 0, "Total round score")

	return cmd
}

// parseWordSpec parses a word:points[:pangram] flag value
func parseWordSpec(spec string) (map[string]any, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("invalid word spec %q: expected word:points[:pangram]", spec)
	}

	points, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid points in word spec %q", spec)
	}

	word := map[string]any{
		"word":   parts[0],
		"points": points,
	}
	if len(parts) == 3 {
		if parts[2] != "pangram" {
			return nil, fmt.Errorf("invalid suffix in word spec %q: expected pangram", spec)
		}
		word["is_pangram"] = true
	}

	return word, nil
}

func newRoomRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart <code>",
		Short: "Restart a finished match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/restart", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
