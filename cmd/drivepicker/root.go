package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/jun/drivepicker/internal/config"
	"github.com/jun/drivepicker/internal/desktop"
	"github.com/jun/drivepicker/internal/logging"
	"github.com/jun/drivepicker/internal/picker"
	"github.com/jun/drivepicker/internal/schema"
	"github.com/jun/drivepicker/internal/secret"
	"github.com/jun/drivepicker/internal/tui"
)

type flags struct {
	view         string
	multiselect  bool
	mimeTypes    []string
	scopes       []string
	uploadView   bool
	sharedDrives bool
	verbose      bool
	readyTimeout time.Duration
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "drivepicker",
		Short: "Pick files from Google Drive in the terminal",
		Long: `Signs in with Google, lists the files of the chosen picker view and
prints the selection as JSON on stdout.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.view, "view", "", "picker view id (DOCS, FOLDERS, PDFS, ...)")
	cmd.Flags().BoolVar(&f.multiselect, "multiselect", false, "allow selecting several files")
	cmd.Flags().StringSliceVar(&f.mimeTypes, "mime", nil, "restrict the view to these Google Apps mime types")
	cmd.Flags().StringSliceVar(&f.scopes, "scope", nil, "OAuth scopes, full URLs or short names such as drive.readonly")
	cmd.Flags().BoolVar(&f.uploadView, "upload-view", false, "request the upload view")
	cmd.Flags().BoolVar(&f.sharedDrives, "shared-drives", false, "include shared drives")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log at debug level")
	cmd.Flags().DurationVar(&f.readyTimeout, "ready-timeout", 30*time.Second, "how long to wait for the Google endpoints")
	return cmd
}

// applyFlags overrides the environment settings with explicitly set flags.
func applyFlags(cmd *cobra.Command, f *flags, pc *schema.Config) {
	set := cmd.Flags().Changed
	if set("view") {
		pc.ViewID = schema.ViewID(f.view)
	}
	if set("multiselect") {
		pc.Multiselect = f.multiselect
	}
	if set("mime") {
		pc.ViewMimeTypes = f.mimeTypes
	}
	if set("scope") {
		pc.Scopes = f.scopes
	}
	if set("upload-view") {
		pc.ShowUploadView = f.uploadView
	}
	if set("shared-drives") {
		pc.SupportDrives = f.sharedDrives
	}
}

func run(cmd *cobra.Command, f *flags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if f.verbose {
		level = "debug"
	}
	logger := logging.New(cfg.Environment, level)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	resolver, err := secret.New(ctx, cfg.DevMode)
	if err != nil {
		return err
	}
	developerKey, err := resolver.GetSecret(ctx, cfg.DeveloperKeyParam)
	if err != nil {
		return fmt.Errorf("resolve developer key: %w", err)
	}
	clientSecret, err := resolver.GetSecret(ctx, cfg.ClientSecretParam)
	if err != nil {
		return fmt.Errorf("resolve client secret: %w", err)
	}

	results := make(chan schema.SelectionResult, 4)
	failures := make(chan error, 1)

	pc := cfg.PickerConfig()
	applyFlags(cmd, f, pc)
	pc.PickerCallback = func(res schema.SelectionResult) { results <- res }

	gw := desktop.New(ctx, desktop.Options{
		ClientSecret: clientSecret,
		RedirectAddr: cfg.OAuthRedirectAddr,
		Selector:     &tui.Selector{Output: os.Stderr},
		Logger:       logger.WithPrefix("desktop"),
		OnTokenError: func(err error) {
			select {
			case failures <- err:
			default:
			}
		},
	})

	loader, err := picker.New(cfg.GoogleClientID, developerKey, cfg.GoogleAppID, pc, gw,
		picker.WithLogger(logger.WithPrefix("picker")))
	if err != nil {
		return err
	}

	readyCtx, cancel := context.WithTimeout(ctx, f.readyTimeout)
	defer cancel()
	if err := loader.WaitReady(readyCtx); err != nil {
		return fmt.Errorf("google endpoints unreachable: %w", err)
	}

	res, err := pick(ctx, loader, results, failures)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("write selection: %w", err)
	}
	if res.Action == schema.ActionError {
		return fmt.Errorf("picker reported an error")
	}
	return nil
}

// pick shows the picker and returns its first result other than "loaded".
// The loader must be ready.
func pick(ctx context.Context, loader *picker.Loader, results <-chan schema.SelectionResult, failures <-chan error) (schema.SelectionResult, error) {
	if !loader.ClientLibraryReady() || !loader.PickerLibraryReady() {
		return schema.SelectionResult{}, fmt.Errorf("picker is not ready")
	}
	if err := loader.ShowPicker(); err != nil {
		return schema.SelectionResult{}, err
	}
	for {
		select {
		case res := <-results:
			if res.Action == schema.ActionLoaded {
				continue
			}
			return res, nil
		case err := <-failures:
			return schema.SelectionResult{}, err
		case <-ctx.Done():
			return schema.SelectionResult{}, ctx.Err()
		}
	}
}
