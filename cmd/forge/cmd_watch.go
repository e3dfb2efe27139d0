package forge

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	forgeapp "github.com/sjzar/forge/internal/forge"
	forgetui "github.com/sjzar/forge/internal/forge/tui"
	"github.com/sjzar/forge/internal/oplog"
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.PersistentPreRun = initLog
	watchCmd.Flags().StringVarP(&watchActorID, "actor", "a", "", "actor id (required on first run in a repo)")
	watchCmd.Flags().StringVarP(&watchHTTPAddr, "http-addr", "", "", "diagnostics HTTP address, e.g. 127.0.0.1:5031 (empty disables it)")
	watchCmd.Flags().BoolVar(&watchTUI, "tui", false, "open the operator dashboard instead of waiting on a signal")
}

var (
	watchActorID  string
	watchHTTPAddr string
	watchTUI      bool
)

var watchCmd = &cobra.Command{
	Use:     "watch [path]",
	Short:   "Watch a repository and stream character-level edit operations",
	Args:    cobra.MaximumNArgs(1),
	Example: `forge watch . --actor my-laptop`,
	Run: func(cmd *cobra.Command, args []string) {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		absRoot, err := filepath.Abs(root)
		if err != nil {
			log.Err(err).Msg("failed to resolve repository root")
			return
		}

		store, err := oplog.Open(filepath.Join(absRoot, ".dx", "forge", "operations.db"))
		if err != nil {
			log.Err(err).Msg("failed to open operation log")
			return
		}
		defer store.Close()

		m, err := forgeapp.New(forgeapp.Options{
			Root:     absRoot,
			ActorID:  watchActorID,
			HTTPAddr: watchHTTPAddr,
			LogSink:  store,
		})
		if err != nil {
			log.Err(err).Msg("failed to initialize watcher")
			return
		}

		if err := m.Start(); err != nil {
			log.Err(err).Msg("failed to start watcher")
			return
		}
		defer m.Stop()

		if watchTUI {
			dash := forgetui.New(m, m.Operations())
			if err := dash.Run(); err != nil {
				log.Err(err).Msg("dashboard exited with error")
			}
			return
		}

		log.Info().Str("root", absRoot).Msg("watching for changes, press ctrl-c to stop")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
	},
}
