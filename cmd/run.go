package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spigell/ai-interviewer/internal/ai/gemini"
	"github.com/spigell/ai-interviewer/internal/interview"
	"github.com/spigell/ai-interviewer/internal/logger"
	"github.com/spigell/ai-interviewer/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a mock interview session",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("candidate", "c", "", "candidate name for the session")
	runCmd.Flags().StringP("job-description-file", "f", "", "file with the job description text")
	runCmd.Flags().IntP("max-topics", "t", 0, "maximum number of technical topics to cover")

	viper.BindPFlag("candidate", runCmd.Flags().Lookup("candidate"))
	viper.BindPFlag("job-description-file", runCmd.Flags().Lookup("job-description-file"))
	viper.BindPFlag("interview.max-topics", runCmd.Flags().Lookup("max-topics"))
}

// run is the main command for the cli.
func run(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the ai-interviewer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	candidate := strings.TrimSpace(config.Candidate)
	if candidate == "" {
		logger.Fatal("candidate name is required",
			zap.String("hint", "set the 'candidate' key in the configuration file or pass --candidate"),
		)
	}

	jobDescription, err := resolveJobDescription(config)
	if err != nil {
		logger.Fatal("loading job description",
			zap.Error(err),
			zap.String("hint", "set 'job-description' or 'job-description-file' in the configuration file"),
		)
	}

	apiKey, err := resolveAPIKey(config)
	if err != nil {
		logger.Fatal("loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE environment variable or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	var model string
	var maxLogLength int
	if config.AI != nil && config.AI.Gemini != nil {
		model = config.AI.Gemini.Model
		maxLogLength = config.AI.Gemini.MaxLogLength
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, model)
	if err != nil {
		logger.Fatal("creating gemini generator", zap.Error(err))
	}

	assistantLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	assistant := gemini.NewInterviewer(generator, maxLogLength, assistantLogger)

	maxTopics := 0
	if config.Interview != nil {
		maxTopics = config.Interview.MaxTopics
	}

	pipeline := interview.New(assistant, &promptAnswerSource{}, maxTopics, logger)
	session := interview.NewSession(candidate, jobDescription)

	logger.Info("starting the interview",
		zap.String("session_id", session.ID),
		zap.String("candidate", candidate),
	)

	if err := pipeline.Run(ctx, session); err != nil {
		logger.Fatal("interview failed", zap.Error(err))
	}

	printSummary(session)
}

func printSummary(session *interview.Session) {
	fmt.Printf("\nInterview summary for %s / %s:\n", session.Candidate, session.Requirements.RoleTitle)
	for _, e := range session.Evaluations {
		fmt.Printf("  [%d/10] %s\n", e.Score, e.Question)
	}
	fmt.Printf("\nFinal recommendation:\n%s\n", session.Recommendation)
}

func resolveJobDescription(config *Config) (string, error) {
	if text := strings.TrimSpace(config.JobDescription); text != "" {
		return text, nil
	}

	file := strings.TrimSpace(config.JobDescriptionFile)
	if file == "" {
		return "", errors.New("job description is not configured")
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading job description from file %q: %w", file, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("job description file %q is empty", file)
	}

	return text, nil
}

func resolveAPIKey(config *Config) (string, error) {
	var inline, keyFile string

	if config.AI != nil {
		provider := strings.TrimSpace(strings.ToLower(config.AI.Provider))
		if provider != "" && provider != "gemini" {
			return "", fmt.Errorf("unsupported ai provider: %s", config.AI.Provider)
		}

		if config.AI.Gemini != nil {
			inline = config.AI.Gemini.APIKey
			keyFile = strings.TrimSpace(config.AI.Gemini.APIKeyFile)
		}
	}

	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	return secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: inline,
		File:  keyFile,
	})
}

// promptAnswerSource collects the candidate's answer from the terminal. The
// read blocks the whole pipeline until the answer is submitted.
type promptAnswerSource struct{}

func (*promptAnswerSource) ReadAnswer(question string) (string, error) {
	fmt.Printf("\nInterviewer: %s\n", question)

	prompt := promptui.Prompt{
		Label: "Your answer",
	}

	return prompt.Run()
}
