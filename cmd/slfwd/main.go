// Command slfwd runs the self-learning NDN forwarder as a standalone
// daemon, or validates a configuration file without starting it.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/named-data/slfwd/core"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "slfwd",
	Short:   "Self-learning NDN forwarding daemon",
	Version: version,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the forwarding daemon until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runRun,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or validate a configuration file",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate CONFIG-FILE",
	Short: "Load a configuration file and report whether it parses",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigValidate,
}

var configFile string

func init() {
	runCmd.Flags().StringVarP(&configFile, "config", "c", "", "path to the TOML configuration file")
	_ = runCmd.MarkFlagRequired("config")

	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(runCmd, configCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	core.LoadConfig(configFile)
	core.InitializeLogger()
	core.StartTimestamp = time.Now()
	core.NumForwardingThreads = core.GetConfigIntDefault("core.threads", 1)

	cfg := loadDaemonConfig()
	exec, err := newExecutor(cfg)
	if err != nil {
		return fmt.Errorf("start forwarder: %w", err)
	}

	core.LogInfo("slfwd", "starting with ", len(exec.threads), " forwarding thread(s)")
	exec.start()

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, os.Interrupt, syscall.SIGTERM)
	<-sigchan

	core.LogInfo("slfwd", "shutting down")
	exec.stop()
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	core.LoadConfig(args[0])
	cfg := loadDaemonConfig()
	fmt.Printf("config OK: %d thread(s), %d multicast UDP face(s), %d Ethernet face(s)\n",
		func() int {
			if cfg.threads < 1 {
				return 1
			}
			return cfg.threads
		}(),
		len(cfg.multicastUDPIfaces), len(cfg.ethernetIfaces))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
