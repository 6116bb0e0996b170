package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Lllllllleong/documentassistant/internal/processing"
	"github.com/Lllllllleong/documentassistant/internal/upload"
)

func newProcessCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Summarize a file or text and create tasks from its action items",
	}
	pf := cmd.PersistentFlags()
	pf.String("priority", "", "priority for action items that carry none: low, medium, high or critical")
	pf.String("department", "", "department for action items that carry none (default General)")
	pf.Bool("no-tasks", false, "summarize only, do not create tasks")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "file <path>",
			Short: "Summarize a PDF, Word, Excel or text file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.processFile(cmd, args[0])
			},
		},
		&cobra.Command{
			Use:   "text <text...>",
			Short: "Summarize text given as arguments, or read from stdin with -",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				text := strings.Join(args, " ")
				if len(args) == 1 && args[0] == "-" {
					b, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return fmt.Errorf("reading stdin: %w", err)
					}
					text = string(b)
				}
				return a.processText(cmd, text)
			},
		},
	)
	return cmd
}

func (a *app) orchestrator(cmd *cobra.Command) *processing.Orchestrator {
	o := processing.NewOrchestrator(a.aiService(), a.taskService(), a.logger)
	o.OnChange(progressPrinter(cmd.ErrOrStderr()))
	return o
}

func (a *app) options() processing.Options {
	return processing.Options{
		AutoCreateTasks: a.cfg.AutoCreateTasks,
		Priority:        a.cfg.Priority,
		Department:      a.cfg.Department,
	}
}

func (a *app) processFile(cmd *cobra.Command, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	mimeType, err := detectType(f)
	if err != nil {
		return fmt.Errorf("detecting type of %s: %w", path, err)
	}

	ctx, cancel := a.context(cmd)
	defer cancel()

	o := a.orchestrator(cmd)
	res := o.ProcessFile(ctx, processing.File{
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MIMEType: mimeType,
		Content:  f,
	}, a.options())
	if res == nil {
		return errors.New(o.State().Error)
	}
	return a.printResult(cmd.OutOrStdout(), res)
}

func (a *app) processText(cmd *cobra.Command, text string) error {
	ctx, cancel := a.context(cmd)
	defer cancel()

	o := a.orchestrator(cmd)
	res := o.ProcessText(ctx, text, a.options())
	if res == nil {
		return errors.New(o.State().Error)
	}
	return a.printResult(cmd.OutOrStdout(), res)
}

// detectType guesses the MIME type from the extension, falling back to
// content sniffing. f is rewound afterwards.
func detectType(f *os.File) (string, error) {
	if t := upload.TypeForExtension(filepath.Ext(f.Name())); t != "" {
		return t, nil
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}
