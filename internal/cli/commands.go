package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayeco/segnalago/config"
	"github.com/ayeco/segnalago/internal/assessment"
	"github.com/ayeco/segnalago/internal/assessor"
	"github.com/ayeco/segnalago/internal/attachment"
	"github.com/ayeco/segnalago/internal/debug"
	"github.com/ayeco/segnalago/internal/report"
	"github.com/ayeco/segnalago/internal/server"
	"github.com/ayeco/segnalago/internal/storage/sqlite"
	"github.com/ayeco/segnalago/internal/vlm"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "segnalago",
		Short: "Segnalago - sportello segnalazioni del comune",
		Long: `Segnalago is the citizen-reporting assistant of the municipal dashboard.
It chats with citizens about city services, assesses photographed hazards
with a vision language model and produces PDF risk reports.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debugFlag, _ := cmd.Flags().GetBool("debug"); debugFlag {
				cfg.Debug = true
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: start the interactive chat
			return runChat(cmd.Context(), cfg)
		},
	}

	rootCmd.AddCommand(newServeCmd(cfg))
	rootCmd.AddCommand(newAssessCmd(cfg))
	rootCmd.AddCommand(newChatCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	return rootCmd
}

// newServeCmd creates the serve command
func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long:  "Serve the chat, assessment and dashboard API over HTTP.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.ServerAddr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := debug.NewEinoDebugger(cfg).Initialize(); err != nil {
				return err
			}

			model, err := vlm.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("initialize model client: %w", err)
			}

			var store *sqlite.Store
			if cfg.TranscriptsEnabled {
				store, err = sqlite.Open(cfg.TranscriptsDBPath)
				if err != nil {
					return fmt.Errorf("open transcript store: %w", err)
				}
				defer store.Close()
			}

			srv := server.New(cfg, model, store)

			// Watch the config file and hot-swap the model client when
			// provider settings change; sessions in flight keep theirs.
			manager, err := config.NewManager(config.WithInitialConfig(cfg))
			if err != nil {
				return fmt.Errorf("initialize config manager: %w", err)
			}
			err = manager.Watch(ctx, func(updated config.Config) {
				refreshed, err := vlm.New(ctx, &updated)
				if err != nil {
					log.Printf("[WARN] config reload: rebuild model client: %v", err)
					return
				}
				srv.SetModel(refreshed)
				log.Printf("[INFO] config reloaded from %s, model %s", manager.Path(), updated.Model)
			})
			if err != nil {
				return fmt.Errorf("watch config: %w", err)
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides SERVER_ADDR)")
	return cmd
}

// newAssessCmd creates the assess command
func newAssessCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess [IMAGE]",
		Short: "Assess a hazard photo and write a PDF risk report",
		Long: `Send a photo of a hazard to the vision model, extract the structured
risk assessment and save it as a PDF report.
Example: segnalago assess buca.jpg --location "Via Toledo 45"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imagePath := ""
			if len(args) == 1 {
				imagePath = args[0]
			}
			location, _ := cmd.Flags().GetString("location")
			output, _ := cmd.Flags().GetString("output")
			return runAssessCommand(cmd.Context(), cfg, imagePath, location, output)
		},
	}

	cmd.Flags().String("location", "", "Address or description of where the photo was taken")
	cmd.Flags().String("output", "", "Output directory for the PDF report (defaults to the reports directory)")
	return cmd
}

// newChatCmd creates the chat command
func newChatCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the municipal assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), cfg)
		},
	}
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Segnalago v1.0.0")
			fmt.Println("Municipal citizen-reporting assistant")
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Manage segnalago configuration settings",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cfg)
		},
	})

	return configCmd
}

// runAssessCommand executes the assessment workflow
func runAssessCommand(ctx context.Context, cfg *config.Config, imagePath, location, output string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var err error
	if imagePath == "" {
		imagePath, err = PromptForImagePath()
		if err != nil {
			return err
		}
	}
	if location == "" {
		location, err = PromptForLocation()
		if err != nil {
			return err
		}
	}

	img, err := attachment.FromFile(imagePath)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}

	model, err := vlm.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize model client: %w", err)
	}

	fmt.Println(infoStyle.Render("🔎 Analisi dell'immagine in corso..."))

	rec, err := assessor.New(model).Assess(ctx, img, location)
	if err != nil {
		var extErr *assessment.ExtractionError
		if errors.As(err, &extErr) {
			fmt.Println(warnStyle.Render("Il modello non ha prodotto una valutazione strutturata."))
			fmt.Println("Risposta del modello:")
			fmt.Println(extErr.Raw)
			return err
		}
		return err
	}

	PrintAssessment(rec)

	if output == "" {
		output = cfg.ReportsDir
	}
	path := filepath.Join(output, report.Filename(rec.Timestamp))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := report.Render(f, rec); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	fmt.Println(successStyle.Render("✅ Report salvato: " + path))
	return nil
}

// showConfig displays the current configuration
func showConfig(cfg *config.Config) {
	fmt.Println("📋 Current Segnalago Configuration:")
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("Server Address:       %s\n", cfg.ServerAddr)
	fmt.Printf("Reports Directory:    %s\n", cfg.ReportsDir)
	fmt.Printf("Data Directory:       %s\n", cfg.DataDir)
	fmt.Println()
	fmt.Printf("LLM Provider:         %s\n", cfg.Provider)
	fmt.Printf("Model:                %s\n", cfg.Model)
	fmt.Printf("Base URL:             %s\n", cfg.BaseURL)
	fmt.Printf("Temperature:          %.2f\n", cfg.Temperature)
	fmt.Printf("Max Tokens:           %d\n", cfg.MaxTokens)
	fmt.Println()
	fmt.Printf("Transcripts Enabled:  %t\n", cfg.TranscriptsEnabled)
	if cfg.TranscriptsEnabled {
		fmt.Printf("Transcripts DB:       %s\n", cfg.TranscriptsDBPath)
	}
	fmt.Printf("Debug Mode:           %t\n", cfg.Debug)
	fmt.Printf("Eino Debug:           %t\n", cfg.EinoDebugEnabled)
	if cfg.EinoDebugEnabled {
		fmt.Printf("Eino Debug Port:      %d\n", cfg.EinoDebugPort)
	}
	fmt.Println()

	if cfg.APIKey != "" {
		fmt.Println("API Key:              ✅ Configured")
	} else {
		fmt.Println("API Key:              ❌ Not configured")
	}
}

// validateConfig validates the configuration and dependencies
func validateConfig(cfg *config.Config) error {
	fmt.Println("🔍 Validating Segnalago Configuration...")
	fmt.Println("═══════════════════════════════════════")

	fmt.Print("📁 Checking directories... ")
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Println("❌")
		return fmt.Errorf("directory validation failed: %w", err)
	}
	fmt.Println("✅")

	fmt.Print("⚙️  Checking configuration values... ")
	if err := cfg.Validate(); err != nil {
		fmt.Println("❌")
		return err
	}
	fmt.Println("✅")

	fmt.Print("🔑 Checking API key... ")
	if cfg.APIKey == "" {
		fmt.Println("⚠️")
		fmt.Println("  ⚠️  LLM_API_KEY not configured; model calls will fail")
	} else {
		fmt.Println("✅")
	}

	fmt.Println()
	fmt.Println("💡 Tips:")
	fmt.Println("  • Set LLM_API_KEY for the configured provider")
	fmt.Println("  • Use 'segnalago serve' to start the dashboard API")
	fmt.Println("  • Use 'segnalago assess photo.jpg' to file a risk report")

	return nil
}
