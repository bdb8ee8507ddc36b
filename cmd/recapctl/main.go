package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mialhq/recapctl/internal/auth"
	"github.com/mialhq/recapctl/internal/config"
	"github.com/mialhq/recapctl/internal/consent"
	"github.com/mialhq/recapctl/internal/db"
	"github.com/mialhq/recapctl/internal/portal"
	"github.com/mialhq/recapctl/internal/telemetry"
	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

var (
	stateFlag  string
	hostFlag   string
	jsonOutput bool
	quietFlag  bool

	cfg          *config.Config
	store        *db.DB
	client       *portal.Client
	consentStore *consent.Store
	page         *telemetry.Page
)

var rootCmd = &cobra.Command{
	Use:   "recapctl",
	Short: "recapctl - CLI client for the MIAL recap portal",
	Long:  "Recapctl: manage recap automations, mailboxes and leads against the MIAL portal.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(stateFlag)
		if err != nil {
			return err
		}
		if hostFlag != "" {
			cfg.Host = hostFlag
		}

		client = portal.New(cfg.Host)
		if token, _ := auth.LoadToken(cfg.StateDir); token != "" {
			client.SetToken(token)
		}

		consentStore = consent.NewStore(cfg.StateDir)
		startTelemetry(cmd)

		// Skip the cache DB for commands that don't need it.
		switch cmd.Name() {
		case "sync", "stats", "status":
		default:
			if !cachedFlagSet(cmd) {
				return nil
			}
		}

		store, err = db.Open(filepath.Join(cfg.StateDir, "cache.db"))
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if page != nil {
			page.Close()
		}
		if store != nil {
			store.Close()
		}
	},
}

// cachedFlagSet reports whether the command was asked to read from the
// local cache instead of the portal.
func cachedFlagSet(cmd *cobra.Command) bool {
	f := cmd.Flags().Lookup("cached")
	return f != nil && f.Changed
}

// startTelemetry opens a page view for this invocation. Every command run
// counts as one page; the pageview fires here and the matching pageclose
// in PersistentPostRun. Without recorded consent the whole pipeline is
// inert.
func startTelemetry(cmd *cobra.Command) {
	session := telemetry.NewSessionStore(cfg.StateDir)
	beacon := telemetry.NewBeacon(client.URL(telemetry.CollectPath), consentStore, session)
	if len(cfg.UTM) > 0 {
		props := make(map[string]any, len(cfg.UTM))
		for k, v := range cfg.UTM {
			props["utm_"+k] = v
		}
		beacon.SetBaseProps(props)
	}

	page = telemetry.NewPage(beacon, "cli/"+cmd.Name(), "")
	page.Start()
	page.StartHeartbeat(0)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("recapctl version %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&stateFlag, "state", "", "State directory (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "Portal host (default: from config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
