// Command rchat sends a one-shot prompt to a Replicate-hosted chat model and
// prints the reply.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/benswift/langchain/pkg/chats/chat"
	"github.com/benswift/langchain/pkg/chats/message"
	"github.com/benswift/langchain/pkg/chats/role"
	"github.com/benswift/langchain/pkg/engine"
	"github.com/benswift/langchain/pkg/providers/replicate"
	"github.com/joho/godotenv"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rchat [flags] <prompt...>\n\nFlags:\n")
		flag.PrintDefaults()
	}

	configPath := flag.String("config", "rchat.yaml", "path to configuration file")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	providerName := flag.String("provider", "", "provider entry to use (default: config default_provider)")
	systemPrompt := flag.String("system", "", "system prompt for the conversation")
	latestVersion := flag.Bool("latest-version", false, "print the model's newest version id and exit")
	flag.Parse()

	if err := run(*configPath, *envFile, *providerName, *systemPrompt, *latestVersion, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, envFile, providerName, systemPrompt string, latestVersion bool, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := loadDotEnv(envFile); err != nil {
		return err
	}

	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	p, ok := cfg.Provider(providerName)
	if !ok {
		return fmt.Errorf("provider %q not found in %s", providerName, configPath)
	}

	if latestVersion {
		id, err := replicate.LatestVersion(ctx, p.BaseURL, p.APIToken, p.Model, nil)
		if err != nil {
			return err
		}

		fmt.Println(id)

		return nil
	}

	adapter, err := engine.BuildAdapter(p)
	if err != nil {
		return err
	}

	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return errors.New("nothing to ask: pass the prompt as arguments")
	}

	c := chat.New()
	if systemPrompt != "" {
		c.Append(message.New(role.System, systemPrompt))
	}
	c.Append(message.New(role.User, prompt))

	reply, err := adapter.Complete(ctx, c, nil)
	if err != nil {
		return err
	}

	fmt.Println(reply.Content)

	return nil
}

// loadDotEnv loads environment variables from path. A missing file is fine;
// any other failure is reported.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}

	return nil
}
