// Package cli implements the docassist command line.
package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Lllllllleong/documentassistant/internal/client"
	"github.com/Lllllllleong/documentassistant/internal/config"
	"github.com/Lllllllleong/documentassistant/internal/logging"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// flagKeys maps cobra flag names to config keys.
var flagKeys = map[string]string{
	"summarize-url": config.KeySummarizeURL,
	"tasks-url":     config.KeyTasksURL,
	"health-url":    config.KeyHealthURL,
	"timeout":       config.KeyTimeout,
	"priority":      config.KeyPriority,
	"department":    config.KeyDepartment,
}

// app carries what every subcommand needs once the config is loaded.
type app struct {
	configFile string
	jsonOutput bool
	cfg        *config.Config
	logger     zerolog.Logger
}

// NewRootCommand builds a fresh command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "docassist",
		Short: "Summarize documents and turn their action items into tasks",
		Long: `docassist sends a document or a piece of text to the summarize-document
function, prints the summary and files the extracted action items as tasks.

Endpoints and defaults come from flags, then DOCASSIST_* environment
variables, then $HOME/.docassist.yaml.

Examples:
  docassist process file ./inspection-report.pdf --priority high
  docassist process text "Inspect platform 3 before Friday"
  docassist tasks file-6f1c2a0e-...
  docassist health`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default $HOME/.docassist.yaml)")
	pf.BoolVar(&a.jsonOutput, "json", false, "print results as JSON")
	pf.String("summarize-url", "", "URL of the summarize-document function")
	pf.String("tasks-url", "", "URL of the create-tasks function")
	pf.String("health-url", "", "URL of the health function")
	pf.Duration("timeout", 0, "overall timeout for one command (default 2m)")

	root.AddCommand(
		newVersionCmd(),
		newProcessCmd(a),
		newHealthCmd(a),
		newTasksCmd(a),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// No config needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docassist %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
		},
	}
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	logging.Init(logging.Console)
	a.logger = log.Logger

	v := config.New(a.configFile)
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding --%s: %w", name, err)
			}
		}
	}
	if noTasks, err := cmd.Flags().GetBool("no-tasks"); err == nil && noTasks {
		v.Set(config.KeyAutoCreateTasks, false)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.Debug().
		Str("summarizeUrl", cfg.SummarizeURL).
		Str("tasksUrl", cfg.TasksURL).
		Str("healthUrl", cfg.HealthURL).
		Dur("timeout", cfg.Timeout).
		Msg("Configuration loaded.")
	return nil
}

func (a *app) aiService() *client.AIService {
	return client.NewAIService(a.cfg.SummarizeURL, a.cfg.HealthURL, http.DefaultClient, a.logger)
}

func (a *app) taskService() *client.TaskService {
	return client.NewTaskService(a.cfg.TasksURL, http.DefaultClient)
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.cfg.Timeout)
}
