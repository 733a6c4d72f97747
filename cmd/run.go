package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Fastpacer/jobcraft/internal/ai"
	"github.com/Fastpacer/jobcraft/internal/ai/gemini"
	"github.com/Fastpacer/jobcraft/internal/logger"
	"github.com/Fastpacer/jobcraft/internal/match"
	"github.com/Fastpacer/jobcraft/internal/outreach"
	"github.com/Fastpacer/jobcraft/internal/pipeline"
	"github.com/Fastpacer/jobcraft/internal/resume"
	"github.com/Fastpacer/jobcraft/internal/secrets"
	"github.com/Fastpacer/jobcraft/internal/serpapi"
	"github.com/Fastpacer/jobcraft/internal/tracker"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowMessages  = "Show outreach messages"
	PromptResultsToFile = "Dump results to file"
	PromptExit          = "Exit"

	defaultStoragePath = "jobcraft.sqlite"
)

var errExit = errors.New("exit requested")

var resultsPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowMessages, PromptResultsToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the job-search pipeline",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not prompt after the pipeline run finishes")
	runCmd.Flags().String("resume-file", "", "path to a plain-text resume file")

	viper.BindPFlag("resume-file", runCmd.Flags().Lookup("resume-file"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting jobcraft", zap.String("version", version))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Search == nil || config.Search.Query == "" {
		logger.Fatal("a search query is required under search.query")
	}

	resumeText, err := loadResumeText(config)
	if err != nil {
		logger.Fatal("loading resume text",
			zap.Error(err),
			zap.String("hint", "set resume-file in the configuration file or via --resume-file"),
		)
	}

	p, store, err := buildPipeline(ctx, config, logger)
	if err != nil {
		logger.Fatal("building pipeline", zap.Error(err))
	}
	defer store.Close()

	minScore := 0
	if config.Pipeline != nil {
		minScore = config.Pipeline.MinScore
	}

	results, err := p.Run(ctx, pipeline.Request{
		ResumeText: resumeText,
		Query:      config.Search.Query,
		Location:   config.Search.Location,
		MaxResults: config.Search.MaxResults,
		MinScore:   minScore,
	})
	if err != nil {
		logger.Fatal("pipeline run failed", zap.Error(err))
	}

	if len(results) == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs cleared the score gate"))
		return
	}

	for _, result := range results {
		logger.Info("matched job",
			zap.String("title", result.Title),
			zap.String("company", result.Company),
			zap.Int("fit_score", result.FitScore),
			zap.String("url", result.URL),
		)
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		_, action, err := resultsPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, results, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, results []pipeline.Result, logger *zap.Logger) error {
	switch action {
	case PromptShowMessages:
		for _, result := range results {
			fmt.Printf("\n%s @ %s (fit score %d)\n%s\n", result.Title, result.Company, result.FitScore, result.OutreachMessage)
		}
		return nil
	case PromptResultsToFile:
		filename, err := dumpResults(results)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping results to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func loadResumeText(config *Config) (string, error) {
	path := strings.TrimSpace(config.ResumeFile)
	if path == "" {
		path = strings.TrimSpace(viper.GetString("resume-file"))
	}
	if path == "" {
		return "", errors.New("resume file is not configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading resume file %q: %w", path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("resume file %q is empty", path)
	}

	return text, nil
}

// buildPipeline assembles the production wiring: gemini generation and
// embeddings, serpapi discovery and a sqlite-backed tracker.
func buildPipeline(ctx context.Context, config *Config, logger *zap.Logger) (*pipeline.Pipeline, *tracker.SQLStore, error) {
	if config.AI == nil || config.AI.Gemini == nil {
		return nil, nil, errors.New("gemini configuration is required under ai.gemini")
	}

	geminiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.AI.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	serpKeyFile := ""
	if config.SerpAPI != nil {
		serpKeyFile = config.SerpAPI.APIKeyFile
	}
	serpKey, err := secrets.Load(secrets.Source{
		Name: "serpapi api key",
		File: serpKeyFile,
		Env:  "SERPAPI_API_KEY",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w (set serpapi.api-key-file or SERPAPI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, geminiKey, config.AI.Gemini.Model)
	if err != nil {
		return nil, nil, err
	}

	embedder, err := gemini.SharedEmbedder(ctx, geminiKey, config.AI.Gemini.EmbeddingModel)
	if err != nil {
		return nil, nil, err
	}

	scorer, err := buildScorer(config.AI.Strategy, generator, embedder, logger)
	if err != nil {
		return nil, nil, err
	}

	storagePath := defaultStoragePath
	if config.Storage != nil && config.Storage.Path != "" {
		storagePath = config.Storage.Path
	}

	store, err := tracker.OpenSQLite(ctx, storagePath)
	if err != nil {
		return nil, nil, err
	}

	p := pipeline.New(
		resume.NewParser(generator, logger),
		serpapi.New(serpKey, logger),
		scorer,
		outreach.NewGenerator(generator, embedder, nil, logger),
		tracker.New(store, logger),
		logger,
	)

	return p, store, nil
}

func buildScorer(strategy string, generator ai.TextGenerator, embedder ai.Embedder, logger *zap.Logger) (pipeline.Scorer, error) {
	switch strings.TrimSpace(strings.ToLower(strategy)) {
	case "", match.StrategyRetrieval:
		return match.NewRetrievalScorer(generator, embedder, logger), nil
	case match.StrategyLLM:
		return match.NewLLMScorer(generator, logger), nil
	default:
		return nil, fmt.Errorf("unsupported scoring strategy: %s", strategy)
	}
}

func dumpResults(results []pipeline.Result) (string, error) {
	file, err := os.CreateTemp("", "jobcraft_results_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return "", err
	}
	return file.Name(), nil
}
