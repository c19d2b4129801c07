// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/prospect"
	"github.com/poiesic/prospect/ai"
	"github.com/poiesic/prospect/chat"
	"github.com/poiesic/prospect/research"
	"github.com/poiesic/prospect/server"
	"github.com/poiesic/prospect/storage/qdrant"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:   "prospect",
		Usage:  "Competitive research engine for B2B prospecting",
		Flags:  globalFlags(),
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "research",
				Usage:     "Research a seed company and its competitors",
				ArgsUsage: "<company>",
				Action:    researchCommand,
				Flags: append(databaseFlags(),
					&cli.IntFlag{
						Name:  "max-competitors",
						Usage: "Maximum number of competitors to discover",
						Value: research.DefaultMaxCompetitors,
					},
					&cli.IntFlag{
						Name:  "max-concurrent",
						Usage: "Maximum number of companies researched in parallel",
						Value: research.DefaultMaxConcurrent,
					},
					&cli.IntFlag{
						Name:  "max-contacts",
						Usage: "Maximum number of contacts fetched per company",
						Value: research.DefaultMaxContacts,
					},
					&cli.DurationFlag{
						Name:  "stage-timeout",
						Usage: "Time budget for each pipeline stage",
						Value: research.DefaultStageTimeout,
					},
					&cli.BoolFlag{
						Name:  "no-discovery",
						Usage: "Research only the named company, skipping competitor discovery",
					},
				),
			},
			{
				Name:   "status",
				Usage:  "Show research task status from a running prospect server",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "server",
						Aliases: []string{"s"},
						Usage:   "Base URL of the prospect server",
						Value:   "http://localhost:8080",
					},
				},
			},
			{
				Name:      "chat",
				Usage:     "Ask a question about researched companies and contacts",
				ArgsUsage: "<question>",
				Action:    chatCommand,
				Flags: append(databaseFlags(),
					&cli.Float64Flag{
						Name:  "similarity-floor",
						Usage: "Minimum similarity score for retrieved evidence",
						Value: float64(chat.DefaultSimilarityFloor),
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Maximum number of documents used as evidence",
						Value: chat.DefaultTopK,
					},
				),
			},
			{
				Name:   "companies",
				Usage:  "List researched companies and their contacts",
				Action: companiesCommand,
				Flags:  databaseFlags(),
			},
			{
				Name:   "summary",
				Usage:  "Show counts of stored companies, contacts, and documents",
				Action: summaryCommand,
				Flags:  databaseFlags(),
			},
			{
				Name:   "serve",
				Usage:  "Run the prospect HTTP server",
				Action: serveCommand,
				Flags: append(databaseFlags(),
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Port to listen on",
						Value:   8080,
					},
					&cli.IntFlag{
						Name:  "max-concurrent",
						Usage: "Maximum number of companies researched in parallel",
						Value: research.DefaultMaxConcurrent,
					},
					&cli.IntFlag{
						Name:  "max-contacts",
						Usage: "Maximum number of contacts fetched per company",
						Value: research.DefaultMaxContacts,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Usage:   "Set logging level (debug, info, warn, error)",
			Value:   "info",
		},
	}
}

func databaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
			Value:   "prospect.db",
		},
		&cli.StringFlag{
			Name:    "host",
			Usage:   "OpenAI-compatible service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"PROSPECT_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "nomic-embed-text",
			EnvVars: []string{"PROSPECT_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "chat-model",
			Usage:   "Chat model name for discovery and answering",
			Value:   "llama3.1",
			EnvVars: []string{"PROSPECT_CHAT_MODEL"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the OpenAI-compatible service",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "apollo-api-key",
			Usage:   "Apollo.io API key for company and contact enrichment",
			EnvVars: []string{"APOLLO_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "qdrant-url",
			Usage:   "Qdrant URL; when set, vectors are stored in Qdrant instead of BadgerDB",
			EnvVars: []string{"QDRANT_URL"},
		},
		&cli.StringFlag{
			Name:    "qdrant-api-key",
			Usage:   "Qdrant API key",
			EnvVars: []string{"QDRANT_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "qdrant-collection",
			Usage: "Qdrant collection name",
			Value: "prospect",
		},
		&cli.Uint64Flag{
			Name:  "qdrant-dims",
			Usage: "Embedding dimensions for the Qdrant collection",
			Value: 768,
		},
	}
}

func openDatabase(c *cli.Context) (*prospect.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithAPIKey(c.String("api-key")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []prospect.DatabaseOption{
		prospect.WithAIConfig(aiConfig),
		prospect.WithApolloAPIKey(c.String("apollo-api-key")),
	}
	if url := c.String("qdrant-url"); url != "" {
		opts = append(opts, prospect.WithQdrant(qdrant.Config{
			URL:        url,
			APIKey:     c.String("qdrant-api-key"),
			Collection: c.String("qdrant-collection"),
			Dims:       c.Uint64("qdrant-dims"),
		}))
	}

	return prospect.NewDatabase(c.String("db"), opts...)
}

func researchCommand(c *cli.Context) error {
	company := strings.TrimSpace(c.Args().First())
	if company == "" {
		return fmt.Errorf("company name is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runnerOpts := []research.RunnerOption{
		research.WithMaxContacts(c.Int("max-contacts")),
		research.WithStageTimeout(c.Duration("stage-timeout")),
	}
	orch, err := db.NewOrchestrator(runnerOpts,
		research.WithMaxConcurrent(c.Int("max-concurrent")),
		research.WithMaxCompetitors(c.Int("max-competitors")),
	)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orch.Close()

	ctx := c.Context

	if c.Bool("no-discovery") {
		task, err := orch.ResearchCompany(ctx, company)
		if err != nil {
			return fmt.Errorf("research failed: %w", err)
		}
		printTask(task)
		return nil
	}

	ids, err := orch.Launch(ctx, company, c.Int("max-competitors"))
	if err != nil {
		return fmt.Errorf("failed to launch research: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Launched %d research tasks\n", len(ids))

	// Poll until every task reaches a terminal stage.
	for {
		tasks, agg := orch.StatusAll()
		if agg.Completed+agg.Failed == agg.Total {
			fmt.Fprintln(os.Stderr)
			for _, task := range tasks {
				printTask(task)
			}
			fmt.Fprintf(os.Stderr, "\n%d completed, %d failed, %d contacts found\n",
				agg.Completed, agg.Failed, agg.TotalContacts)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func printTask(task research.Task) {
	if task.Error != "" {
		fmt.Fprintf(os.Stderr, "  %-30s %s (%s)\n", task.CompanyName, task.Stage, task.Error)
		return
	}
	fmt.Fprintf(os.Stderr, "  %-30s %s\n", task.CompanyName, task.Stage)
}

func statusCommand(c *cli.Context) error {
	url := strings.TrimRight(c.String("server"), "/") + "/api/tasks"

	req, err := http.NewRequestWithContext(c.Context, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s", resp.Status)
	}

	var body struct {
		Tasks     []research.Task    `json:"tasks"`
		Aggregate research.Aggregate `json:"aggregate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if body.Aggregate.Total == 0 {
		fmt.Println("No research tasks.")
		return nil
	}
	for _, task := range body.Tasks {
		fmt.Printf("%-36s %-30s %-18s %3d%%", task.ID, task.CompanyName, task.Stage, task.Progress)
		if task.Error != "" {
			fmt.Printf("  %s", task.Error)
		}
		fmt.Println()
	}
	fmt.Printf("\n%d total: %d in progress, %d completed, %d failed, %d contacts\n",
		body.Aggregate.Total, body.Aggregate.InProgress, body.Aggregate.Completed,
		body.Aggregate.Failed, body.Aggregate.TotalContacts)
	return nil
}

func chatCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	engine := db.NewChatEngine(
		chat.WithSimilarityFloor(float32(c.Float64("similarity-floor"))),
		chat.WithTopK(c.Int("top-k")),
	)

	answer, err := engine.Ask(c.Context, question)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	fmt.Println(answer.Text)
	if len(answer.Sources) > 0 {
		fmt.Printf("\nSources: %s\n", strings.Join(answer.Sources, ", "))
	}
	return nil
}

func companiesCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := c.Context
	companies, err := db.CompanyRepository().GetAllCompanies(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}
	if len(companies) == 0 {
		fmt.Println("No companies researched yet.")
		return nil
	}

	for _, company := range companies {
		fmt.Printf("%s", company.Name)
		if company.Industry != "" {
			fmt.Printf(" (%s)", company.Industry)
		}
		fmt.Println()

		contacts, err := db.ContactRepository().GetContactsByCompany(ctx, company.Name)
		if err != nil {
			return fmt.Errorf("failed to list contacts for %s: %w", company.Name, err)
		}
		for _, contact := range contacts {
			fmt.Printf("  %s, %s [%s / %s]\n",
				contact.Name, contact.Title, contact.Seniority, contact.Department)
		}
	}
	return nil
}

func summaryCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	summary, err := db.Summary(c.Context)
	if err != nil {
		return fmt.Errorf("failed to read summary: %w", err)
	}

	fmt.Printf("Companies: %d\nContacts:  %d\nDocuments: %d\n",
		summary.Companies, summary.Contacts, summary.Documents)
	return nil
}

func serveCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runnerOpts := []research.RunnerOption{
		research.WithMaxContacts(c.Int("max-contacts")),
	}
	orch, err := db.NewOrchestrator(runnerOpts,
		research.WithMaxConcurrent(c.Int("max-concurrent")),
	)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orch.Close()

	srv := server.New(server.Config{
		DB:           db,
		Orchestrator: orch,
		Chat:         db.NewChatEngine(),
		Logger:       slog.Default(),
		Port:         c.Int("port"),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	slog.Info("server started", "port", c.Int("port"))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
