package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jobcraft"
)

type Config struct {
	ResumeFile string          `mapstructure:"resume-file"`
	Search     *SearchConfig   `mapstructure:"search"`
	Pipeline   *PipelineConfig `mapstructure:"pipeline"`
	AI         *AIConfig       `mapstructure:"ai"`
	SerpAPI    *SerpAPIConfig  `mapstructure:"serpapi"`
	Storage    *StorageConfig  `mapstructure:"storage"`
}

type SearchConfig struct {
	Query      string `mapstructure:"query"`
	Location   string `mapstructure:"location"`
	MaxResults int    `mapstructure:"max-results"`
}

type PipelineConfig struct {
	MinScore int `mapstructure:"min-score"`
}

type AIConfig struct {
	Strategy string        `mapstructure:"strategy"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
}

type SerpAPIConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
}

type StorageConfig struct {
	Path string `mapstructure:"path"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobcraft is a job-search automation pipeline: parse a resume, discover and score jobs, generate outreach",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("serpapi.api-key-file", "SERPAPI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding SERPAPI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobcraft.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
