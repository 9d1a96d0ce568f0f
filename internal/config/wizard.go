package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an http(s) URL")
	}
	return nil
}

func validateInt(min, max int) promptui.ValidateFunc {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("must be a number")
		}
		if n < min || n > max {
			return fmt.Errorf("must be between %d and %d", min, max)
		}
		return nil
	}
}

// RunWizard runs an interactive configuration wizard and saves the
// resulting Config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to stockconsole! Let's configure the console.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Inventory API.
	apiPrompt := promptui.Prompt{
		Label:    "Inventory API base URL",
		Default:  cfg.APIBaseURL,
		Validate: validateURL,
	}
	apiURL, err := apiPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("api base url: %w", err)
	}
	cfg.APIBaseURL = strings.TrimSpace(apiURL)

	// 2. Login page.
	loginPrompt := promptui.Prompt{
		Label:   "Login page URL",
		Default: cfg.LoginURL,
	}
	loginURL, err := loginPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("login url: %w", err)
	}
	cfg.LoginURL = strings.TrimSpace(loginURL)

	// 3. Listen port.
	portPrompt := promptui.Prompt{
		Label:    "Listen port",
		Default:  strconv.Itoa(cfg.Port),
		Validate: validateInt(1, 65535),
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	// 4. Credential storage.
	storagePrompt := promptui.Select{
		Label: "Select credential storage",
		Items: []string{
			"memory: lost on restart",
			"sqlite: survives restarts",
		},
	}
	storageIdx, _, err := storagePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("storage selection: %w", err)
	}
	cfg.Storage = []StorageType{StorageMemory, StorageSQLite}[storageIdx]

	// 5. Low-stock threshold.
	lowPrompt := promptui.Prompt{
		Label:    "Low-stock threshold",
		Default:  strconv.Itoa(cfg.LowStockThreshold),
		Validate: validateInt(0, 1<<20),
	}
	lowStr, err := lowPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("low stock threshold: %w", err)
	}
	cfg.LowStockThreshold, _ = strconv.Atoi(strings.TrimSpace(lowStr))

	// 6. Extra CORS origins.
	originsPrompt := promptui.Prompt{
		Label:   "Allowed origins (comma-separated, leave blank for defaults)",
		Default: "",
	}
	originsStr, err := originsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("allowed origins: %w", err)
	}
	cfg.AllowedOrigins = splitAndTrim(originsStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
