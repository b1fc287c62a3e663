package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/Uncouple/internal/app"
	"github.com/markdave123-py/Uncouple/internal/config"
	"github.com/markdave123-py/Uncouple/internal/core/forms"
	"github.com/markdave123-py/Uncouple/internal/models"
	"github.com/markdave123-py/Uncouple/internal/services"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:   "uncouple",
		Short: "Uncouple - New York uncontested divorce forms",
		Long: `Uncouple guides a filer through the New York uncontested divorce process:
eligibility screening, intake, payment and generation of the court forms.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.LoadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}

	conf := func() *config.Config { return cfg }

	rootCmd.AddCommand(newServeCmd(conf))
	rootCmd.AddCommand(newIngestCmd(conf))
	rootCmd.AddCommand(newRenderCmd(conf))
	rootCmd.AddCommand(newTemplatesCmd())
	rootCmd.AddCommand(newEligibilityCmd())
	rootCmd.AddCommand(newIntakeCmd())

	return rootCmd
}

func newServeCmd(conf func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), conf())
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}
	defer application.Close()

	application.StartWorkers(ctx)
	go application.Server.Start()

	log.Println("Uncouple is running; DB connected and bootstrapped.")
	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return application.Server.Shutdown(shutdownCtx)
}

func newIngestCmd(conf func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest FILE...",
		Short: "Add guidance documents to the assistant's knowledge base",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := conf()
			if !cfg.AIConfigured() {
				return fmt.Errorf("ingest needs GEMINI_API_KEY for embeddings")
			}
			application, err := app.NewApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			for _, path := range args {
				doc, err := application.Services.Knowledge.AddLocal(cmd.Context(), path)
				if err != nil {
					fmt.Println(errorStyle.Render(fmt.Sprintf("✗ %s: %v", path, err)))
					continue
				}
				fmt.Println(successStyle.Render(fmt.Sprintf("✓ %s (%s) %s", doc.FileName, doc.ID, doc.Status)))
			}
			return nil
		},
	}
}

func newRenderCmd(conf func() *config.Config) *cobra.Command {
	var in, out, format string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Fill every form from a saved intake record",
		Long: `Fill the six court forms from a JSON intake record and write them as a ZIP.
Example: uncouple render --in record.json --out divorce_forms.zip --format pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := readRecord(in)
			if err != nil {
				return err
			}
			gen, err := app.NewGenerator(conf(), nil)
			if err != nil {
				return err
			}
			a, err := services.NewDocumentService(nil, gen, false).BundleRecord(cmd.Context(), rec, format)
			if err != nil {
				return err
			}
			if out == "" {
				out = a.Name
			}
			if err := os.WriteFile(out, a.Content, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Println(successStyle.Render(fmt.Sprintf("✓ wrote %d forms to %s", a.Count, out)))
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "record.json", "Intake record in JSON")
	cmd.Flags().StringVar(&out, "out", "", "Output archive (default divorce_forms.<format>.zip)")
	cmd.Flags().StringVar(&format, "format", services.FormatDocx, "docx or pdf")

	return cmd
}

func newTemplatesCmd() *cobra.Command {
	templatesCmd := &cobra.Command{
		Use:   "templates",
		Short: "Template management",
	}

	var dir string
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Write the built-in form templates to a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := forms.SeedTemplates(dir)
			for _, p := range written {
				fmt.Println(successStyle.Render("✓ " + p))
			}
			return err
		},
	}
	seed.Flags().StringVar(&dir, "dir", "templates", "Target directory")
	templatesCmd.AddCommand(seed)

	return templatesCmd
}

func readRecord(path string) (models.FormRecord, error) {
	var rec models.FormRecord
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("parse %s: %w", path, err)
	}
	return rec, nil
}

func writeRecord(path string, rec models.FormRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
