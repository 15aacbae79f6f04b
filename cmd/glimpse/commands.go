package main

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cboone/glimpse"
	"github.com/cboone/glimpse/internal/config"
)

const defaultAssetDir = "ui_elements"

// flags holds the values of persistent and per-command flags.
type flags struct {
	assetDir string
	region   string
	policy   string
	set      bool
}

// newRootCmd builds the command tree around d.
func newRootCmd(d glimpse.Driver) *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:           "glimpse",
		Short:         "Inspect the desktop as the glimpse harness sees it",
		Long:          "List windows, locate template assets on screen, capture regions and use the clipboard. Settings fall back to the GLIMPSE_* environment and a .env file.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("assets") && cfg.AssetDir != "" {
				f.assetDir = cfg.AssetDir
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&f.assetDir, "assets", "a", defaultAssetDir, "Directory of template images")

	windowsCmd := &cobra.Command{
		Use:   "windows",
		Short: "List top-level windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindows(cmd.OutOrStdout(), d)
		},
	}
	root.AddCommand(windowsCmd)

	locateCmd := &cobra.Command{
		Use:   "locate [asset...]",
		Short: "Locate template assets on screen",
		Long:  "Search the screen (or --region) for each named asset, or every PNG in the asset directory when none are named. Exits non-zero when any asset is not found.",
		RunE: func(cmd *cobra.Command, args []string) error {
			region, err := parseRegion(f.region)
			if err != nil {
				return err
			}
			policy, err := parsePolicy(f.policy)
			if err != nil {
				return err
			}
			assets := args
			if len(assets) == 0 {
				if assets, err = listAssets(f.assetDir); err != nil {
					return err
				}
			}
			loc := glimpse.NewLocator(d, glimpse.NewAssetStore(f.assetDir))
			return runLocate(cmd.OutOrStdout(), cmd.ErrOrStderr(), loc, assets, policy, region)
		},
	}
	locateCmd.Flags().StringVarP(&f.region, "region", "r", "", "Search region as x,y,width,height (default whole screen)")
	locateCmd.Flags().StringVarP(&f.policy, "policy", "p", "control", "Match policy: control, indicator or dismiss")
	root.AddCommand(locateCmd)

	captureCmd := &cobra.Command{
		Use:   "capture <file.png>",
		Short: "Capture the screen or a region to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			region, err := parseRegion(f.region)
			if err != nil {
				return err
			}
			loc := glimpse.NewLocator(d, glimpse.NewAssetStore(f.assetDir))
			return runCapture(cmd.OutOrStdout(), loc, args[0], region)
		},
	}
	captureCmd.Flags().StringVarP(&f.region, "region", "r", "", "Region as x,y,width,height (default whole screen)")
	root.AddCommand(captureCmd)

	clipboardCmd := &cobra.Command{
		Use:   "clipboard [text]",
		Short: "Print the clipboard, or replace it with --set",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.set {
				text := ""
				if len(args) == 1 {
					text = args[0]
				}
				return d.WriteClipboard(text)
			}
			if len(args) > 0 {
				return errors.New("text given without --set")
			}
			text, err := d.ReadClipboard()
			if err != nil {
				return fmt.Errorf("read clipboard: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%q\n", text)
			return nil
		},
	}
	clipboardCmd.Flags().BoolVar(&f.set, "set", false, "Write the argument (or nothing) to the clipboard")
	root.AddCommand(clipboardCmd)

	return root
}

func runWindows(out io.Writer, d glimpse.Driver) error {
	wins, err := d.Windows()
	if err != nil {
		return fmt.Errorf("list windows: %w", err)
	}
	active, ok, err := d.ActiveWindow()
	if err != nil {
		return fmt.Errorf("active window: %w", err)
	}

	fmt.Fprintln(out, color.CyanString("%d windows", len(wins)))
	for _, w := range wins {
		marker := " "
		if ok && w.ID == active.ID {
			marker = color.GreenString("*")
		}
		fmt.Fprintf(out, "%s %6d  pid %-6d %-28s %q\n", marker, w.ID, w.PID, w.Bounds, w.Title)
	}
	return nil
}

func runLocate(out, progress io.Writer, loc *glimpse.Locator, assets []string, policy glimpse.Policy, region glimpse.Region) error {
	bar := newProgressBar(progress, len(assets))
	var lines []string
	missing := 0
	for _, asset := range assets {
		m, err := loc.Locate(asset, policy, region)
		if err != nil {
			missing++
			lines = append(lines, color.RedString("✗ %s: %v", asset, err))
		} else {
			lines = append(lines, color.GreenString("✓ %s", asset)+fmt.Sprintf(" at %v score %.3f (%v)", m.Box, m.Score, m.Config))
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	fmt.Fprintln(out, color.CyanString("Located %d of %d assets", len(assets)-missing, len(assets)))
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
	if missing > 0 {
		return fmt.Errorf("%d of %d assets not found", missing, len(assets))
	}
	return nil
}

func runCapture(out io.Writer, loc *glimpse.Locator, path string, region glimpse.Region) error {
	shot, err := loc.Capture(region)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, shot.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %v to %s\n", color.GreenString("captured"), shot.Region(), path)
	return nil
}

// parseRegion parses "x,y,width,height". The empty string is the whole
// screen.
func parseRegion(s string) (glimpse.Region, error) {
	if s == "" {
		return glimpse.Region{}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return glimpse.Region{}, fmt.Errorf("region %q: want x,y,width,height", s)
	}
	var n [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return glimpse.Region{}, fmt.Errorf("region %q: %w", s, err)
		}
		n[i] = v
	}
	r := glimpse.Region{X: n[0], Y: n[1], Width: n[2], Height: n[3]}
	if r.Empty() {
		return glimpse.Region{}, fmt.Errorf("region %q: width and height must be positive", s)
	}
	return r, nil
}

var policies = map[string]glimpse.Policy{
	"control":   glimpse.ControlPolicy,
	"indicator": glimpse.IndicatorPolicy,
	"dismiss":   glimpse.DismissPolicy,
}

func parsePolicy(name string) (glimpse.Policy, error) {
	p, ok := policies[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown policy %q (want control, indicator or dismiss)", name)
	}
	return p, nil
}

// listAssets returns the PNG files in dir, sorted.
func listAssets(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("list assets: no PNG files in %s", dir)
	}
	sort.Strings(names)
	return names, nil
}
