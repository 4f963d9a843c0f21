package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/retriva/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and change retrieval, chunking, and provider settings.

Settings are addressed by dotted keys, for example:

  retriva config get retrieval.top_k
  retriva config set retrieval.text_threshold 0.5
  retriva config set embedding.provider openai

API keys are never passed on the command line; use 'config set-key'.`,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current settings",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [provider]",
	Short: "Store an API key for a provider",
	Long: `Prompts for an API key without echoing it and stores it.

Configuring a key for a cloud embedding provider also switches the
embedding configuration to that provider.

Supported targets: openai, rerank.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigSetKey,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetKeyCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.Embedding.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Text threshold: %.2f\n", settings.Retrieval.TextThreshold)
	cmd.Printf("  Code threshold: %.2f\n", settings.Retrieval.CodeThreshold)
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Token budget: %d\n", settings.Retrieval.TokenBudget)
	cmd.Println()

	cmd.Println("[Rerank]")
	if settings.Rerank.Enabled {
		cmd.Printf("  Enabled: yes\n")
		cmd.Printf("  Endpoint: %s\n", settings.Rerank.Endpoint)
		cmd.Printf("  Model: %s\n", settings.Rerank.Model)
		cmd.Printf("  Threshold: %.2f\n", settings.Rerank.Threshold)
	} else {
		cmd.Printf("  Enabled: no\n")
	}
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Max tokens: %d\n", settings.Chunking.MaxTokens)
	cmd.Printf("  Overlap tokens: %d\n", settings.Chunking.OverlapTokens)
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Max file size: %d bytes\n", settings.Ingest.MaxFileSizeBytes)

	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	value, ok := settingValue(settings, args[0])
	if !ok {
		return fmt.Errorf("unknown setting %q", args[0])
	}

	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]

	switch key {
	case "embedding.api_key", "rerank.api_key":
		return errors.New("use 'retriva config set-key' to store API keys")

	case "embedding.provider":
		// Provider changes carry model, URL, and dimension defaults,
		// so they go through the settings service.
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		provider := domain.AIProvider(value)
		if err := settingsService.SetEmbeddingProvider(provider, "", settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("failed to set provider: %w", err)
		}
		cmd.Printf("Set %s to %s\n", key, value)
		return nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if err := applySetting(settings, key, value); err != nil {
		return err
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Set %s to %s\n", key, value)
	return nil
}

func runConfigSetKey(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	target := args[0]
	isRerank := target == "rerank"

	provider := domain.AIProvider(target)
	if !isRerank {
		if !provider.IsValid() {
			return fmt.Errorf("unknown provider %q (use openai or rerank)", target)
		}
		if !provider.RequiresAPIKey() {
			return fmt.Errorf("provider %s does not use an API key", provider)
		}
	}

	cmd.Print("Enter API key: ")
	apiKey := readPassword()
	cmd.Println()
	if apiKey == "" {
		return errors.New("no API key entered")
	}

	if isRerank {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		settings.Rerank.APIKey = apiKey
		if err := settingsService.Save(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		cmd.Println("Rerank API key stored.")
		return nil
	}

	if err := settingsService.SetEmbeddingProvider(provider, "", apiKey); err != nil {
		return fmt.Errorf("failed to configure %s: %w", provider, err)
	}

	cmd.Printf("API key stored. Embedding provider set to %s.\n", provider.Description())
	return nil
}

// settingValue renders one setting for 'config get'. API keys come
// back masked.
func settingValue(settings *domain.AppSettings, key string) (string, bool) {
	switch key {
	case "embedding.provider":
		return settings.Embedding.Provider.String(), true
	case "embedding.model":
		return settings.Embedding.Model, true
	case "embedding.base_url":
		return settings.Embedding.BaseURL, true
	case "embedding.api_key":
		if settings.Embedding.APIKey == "" {
			return "(not set)", true
		}
		return maskAPIKey(settings.Embedding.APIKey), true
	case "embedding.dimensions":
		return strconv.Itoa(settings.Embedding.Dimensions), true
	case "retrieval.text_threshold":
		return formatFloat(settings.Retrieval.TextThreshold), true
	case "retrieval.code_threshold":
		return formatFloat(settings.Retrieval.CodeThreshold), true
	case "retrieval.top_k":
		return strconv.Itoa(settings.Retrieval.TopK), true
	case "retrieval.token_budget":
		return strconv.Itoa(settings.Retrieval.TokenBudget), true
	case "rerank.enabled":
		return strconv.FormatBool(settings.Rerank.Enabled), true
	case "rerank.endpoint":
		return settings.Rerank.Endpoint, true
	case "rerank.model":
		return settings.Rerank.Model, true
	case "rerank.api_key":
		if settings.Rerank.APIKey == "" {
			return "(not set)", true
		}
		return maskAPIKey(settings.Rerank.APIKey), true
	case "rerank.threshold":
		return formatFloat(settings.Rerank.Threshold), true
	case "chunking.max_tokens":
		return strconv.Itoa(settings.Chunking.MaxTokens), true
	case "chunking.overlap_tokens":
		return strconv.Itoa(settings.Chunking.OverlapTokens), true
	case "ingest.max_file_size_bytes":
		return strconv.FormatInt(settings.Ingest.MaxFileSizeBytes, 10), true
	default:
		return "", false
	}
}

// applySetting parses and applies one 'config set' assignment.
// Provider and API key settings are handled before this is called.
func applySetting(settings *domain.AppSettings, key, value string) error {
	switch key {
	case "embedding.model":
		settings.Embedding.Model = value
	case "embedding.base_url":
		settings.Embedding.BaseURL = value
	case "embedding.dimensions":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		settings.Embedding.Dimensions = n
	case "retrieval.text_threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		settings.Retrieval.TextThreshold = f
	case "retrieval.code_threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		settings.Retrieval.CodeThreshold = f
	case "retrieval.top_k":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		settings.Retrieval.TopK = n
	case "retrieval.token_budget":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		settings.Retrieval.TokenBudget = n
	case "rerank.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		settings.Rerank.Enabled = b
	case "rerank.endpoint":
		settings.Rerank.Endpoint = value
	case "rerank.model":
		settings.Rerank.Model = value
	case "rerank.threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		settings.Rerank.Threshold = f
	case "chunking.max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		settings.Chunking.MaxTokens = n
	case "chunking.overlap_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		settings.Chunking.OverlapTokens = n
	case "ingest.max_file_size_bytes":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		settings.Ingest.MaxFileSizeBytes = n
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
