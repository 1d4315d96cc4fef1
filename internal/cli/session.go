package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Quiz session commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionJoinCmd())
	cmd.AddCommand(newSessionQuestionCmd())
	cmd.AddCommand(newSessionReviewCmd())
	cmd.AddCommand(newSessionAdvanceCmd())
	cmd.AddCommand(newSessionAnswerCmd())
	cmd.AddCommand(newSessionScoresCmd())
	cmd.AddCommand(newSessionEndCmd())

	return cmd
}

func newSessionCreateCmd() *cobra.Command {
	var setName string
	var count int
	var questionsFile string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new quiz session",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if setName != "" {
				req["set_name"] = setName
			}
			if count > 0 {
				req["count"] = count
			}
			if questionsFile != "" {
				data, err := os.ReadFile(questionsFile)
				if err != nil {
					return fmt.Errorf("failed to read questions file: %w", err)
				}
				var questions []map[string]any
				if err := json.Unmarshal(data, &questions); err != nil {
					return fmt.Errorf("failed to parse questions file: %w", err)
				}
				req["questions"] = questions
			}

			var result Session

			if err := client.Post("/api/v1/sessions", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&setName, "set", "", "Question set to draw from (default: server default)")
	cmd.Flags().IntVar(&count, "count", 0, "Number of questions to draw (default: server default)")
	cmd.Flags().StringVar(&questionsFile, "questions-file", "", "JSON file with an explicit question bank")

	return cmd
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get session details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result Session

			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s", code), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <code>",
		Short: "Join a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result Session

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/join", code), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionQuestionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "question <code>",
		Short: "Show the current question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result Question

			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s/question", code), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionReviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review <code> <index>",
		Short: "Review a question with its answer (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index must be an integer")
			}

			var result HostQuestion

			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s/questions/%d", code, index), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionAdvanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <code>",
		Short: "Advance to the next question (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result Session

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/advance", code), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionAnswerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "answer <code> <index>",
		Short: "Submit an answer to the current question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index must be an integer")
			}

			req := map[string]int{"answer": index}
			var result Answer

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/answer", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionScoresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scores <code>",
		Short: "Show the session leaderboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result Scores

			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s/scores", code), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <code>",
		Short: "End and delete a session (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Delete(fmt.Sprintf("/api/v1/sessions/%s", code)); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Session %s ended", code))
			return nil
		},
	}
}
