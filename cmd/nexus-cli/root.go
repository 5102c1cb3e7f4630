package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nexus-gm/internal/config"

	"github.com/spf13/cobra"
)

type cliOptions struct {
	server  string
	user    string
	channel string
	timeout time.Duration
	json    bool
}

func (o *cliOptions) client() *apiClient {
	return newAPIClient(o.server, o.timeout)
}

func newRootCmd() *cobra.Command {
	defaults, err := config.LoadClient()
	opts := &cliOptions{}
	rootCmd := &cobra.Command{
		Use:           "nexus-cli",
		Short:         "Play Nexus Arcanum adventures against a gm-server",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.server, "server", defaults.ServerURL, "game server base URL")
	flags.StringVar(&opts.user, "user", defaults.UserID, "player id")
	flags.StringVar(&opts.channel, "channel", defaults.ChannelID, "channel id")
	flags.DurationVar(&opts.timeout, "timeout", 90*time.Second, "request timeout")
	flags.BoolVar(&opts.json, "json", false, "print raw JSON")

	rootCmd.AddCommand(
		newStartCmd(opts),
		newJoinCmd(opts),
		newActCmd(opts),
		newRollCmd(opts),
		newStatusCmd(opts),
		newQuitCmd(opts),
	)
	return rootCmd
}

func newStartCmd(opts *cliOptions) *cobra.Command {
	var (
		theme string
		party bool
		char  struct{ name, descriptor, typ, focus string }
	)
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start an adventure, or resume the one already running",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c := opts.client()
			mode := "solo"
			if party {
				mode = "party"
			}
			var info sessionInfo
			err := c.do(ctx, http.MethodPost, "/api/sessions", map[string]any{
				"channel_id": opts.channel, "user_id": opts.user, "mode": mode,
			}, &info)
			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Code == "user_already_in_session" {
				return showStatus(ctx, cmd.OutOrStdout(), opts)
			}
			if err != nil {
				return err
			}
			base := "/api/sessions/" + info.ID
			if char.name != "" {
				if err := c.do(ctx, http.MethodPost, base+"/characters", map[string]any{
					"user_id": opts.user, "name": char.name, "descriptor": char.descriptor,
					"type": char.typ, "focus": char.focus,
				}, nil); err != nil {
					return fmt.Errorf("create character: %w", err)
				}
			}
			var turn turnResult
			if err := c.do(ctx, http.MethodPost, base+"/begin", map[string]any{
				"user_id": opts.user, "theme": theme,
			}, &turn); err != nil {
				return err
			}
			return printTurn(cmd.OutOrStdout(), opts, turn)
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "adventure theme")
	cmd.Flags().BoolVar(&party, "party", false, "allow other players to join")
	cmd.Flags().StringVar(&char.name, "name", "", "character name")
	cmd.Flags().StringVar(&char.descriptor, "descriptor", "", "character descriptor")
	cmd.Flags().StringVar(&char.typ, "type", "", "character type")
	cmd.Flags().StringVar(&char.focus, "focus", "", "character focus")
	cmd.MarkFlagsRequiredTogether("name", "descriptor", "type", "focus")
	return cmd
}

func newJoinCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "join <session-id>",
		Short: "Join a party session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Session sessionInfo `json:"session"`
				Joined  bool        `json:"joined"`
			}
			if err := opts.client().do(cmd.Context(), http.MethodPost, "/api/sessions/"+args[0]+"/players",
				map[string]any{"user_id": opts.user}, &out); err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			if !out.Joined {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Already in session %s\n", out.Session.ID)
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Joined session %s (%d players)\n", out.Session.ID, len(out.Session.UserIDs))
			return err
		},
	}
}

func newActCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "act <choice number or action>",
		Short: "Take an action in the current scene",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := opts.client()
			info, err := c.findSession(ctx, opts.user, opts.channel)
			if err != nil {
				return err
			}
			var turn turnResult
			if err := c.do(ctx, http.MethodPost, "/api/sessions/"+info.ID+"/actions", map[string]any{
				"user_id": opts.user, "action": strings.Join(args, " "),
			}, &turn); err != nil {
				return err
			}
			return printTurn(cmd.OutOrStdout(), opts, turn)
		},
	}
}

func newRollCmd(opts *cliOptions) *cobra.Command {
	var in struct {
		pool       string
		difficulty int
		effort     int
		skill      int
		assets     int
	}
	cmd := &cobra.Command{
		Use:   "roll",
		Short: "Roll a task against a difficulty",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c := opts.client()
			info, err := c.findSession(ctx, opts.user, opts.channel)
			if err != nil {
				return err
			}
			var res rollResult
			if err := c.do(ctx, http.MethodPost, "/api/sessions/"+info.ID+"/rolls", map[string]any{
				"user_id": opts.user, "pool": in.pool, "difficulty": in.difficulty,
				"effort": in.effort, "skill": in.skill, "assets": in.assets,
			}, &res); err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			verdict := "FAILURE"
			if res.Success {
				verdict = "SUCCESS"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: rolled %d vs %d. %s\n%s pool: %d\n",
				verdict, res.Roll, res.Target, res.Narrative, res.Pool, res.Remaining)
			return err
		},
	}
	cmd.Flags().StringVar(&in.pool, "pool", "might", "stat pool: might, speed or intellect")
	cmd.Flags().IntVar(&in.difficulty, "difficulty", 0, "task difficulty 0-10")
	cmd.Flags().IntVar(&in.effort, "effort", 0, "levels of effort")
	cmd.Flags().IntVar(&in.skill, "skill", 0, "skill level")
	cmd.Flags().IntVar(&in.assets, "assets", 0, "assets 0-2")
	_ = cmd.MarkFlagRequired("difficulty")
	return cmd
}

func newStatusCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current scene and character",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showStatus(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
}

func newQuitCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "quit",
		Short: "End the current adventure",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c := opts.client()
			info, err := c.findSession(ctx, opts.user, opts.channel)
			if err != nil {
				return err
			}
			if err := c.do(ctx, http.MethodDelete, "/api/sessions/"+info.ID, nil, nil); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Adventure %s ended.\n", info.ID)
			return err
		},
	}
}

func showStatus(ctx context.Context, w io.Writer, opts *cliOptions) error {
	c := opts.client()
	info, err := c.findSession(ctx, opts.user, opts.channel)
	if err != nil {
		return err
	}
	var st statusResult
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+info.ID+"/status?user_id="+url.QueryEscape(opts.user), nil, &st); err != nil {
		return err
	}
	if opts.json {
		return writeJSON(w, st)
	}
	fmt.Fprintf(w, "Session %s (%s, %s)\n\n", st.Session.ID, st.Session.Mode, st.Session.Status)
	if st.Sheet != "" {
		fmt.Fprintf(w, "%s\n\n", st.Sheet)
	}
	fmt.Fprintln(w, st.State.SceneDescription)
	writeChoices(w, st.State.AvailableChoices)
	return nil
}

func printTurn(w io.Writer, opts *cliOptions, turn turnResult) error {
	if opts.json {
		return writeJSON(w, turn)
	}
	fmt.Fprintln(w, turn.Scene)
	writeChoices(w, turn.Choices)
	return nil
}

func writeChoices(w io.Writer, choices []string) {
	if len(choices) == 0 {
		return
	}
	fmt.Fprintln(w)
	for i, c := range choices {
		fmt.Fprintf(w, "%d. %s\n", i+1, c)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
