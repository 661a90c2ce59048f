package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"netprofile-agent/internal/application/usecases"
	"netprofile-agent/internal/domain/entities"
	"netprofile-agent/internal/infrastructure/api"
	"netprofile-agent/internal/infrastructure/container"
	"netprofile-agent/internal/infrastructure/metrics"
)

// configFlags holds the inline configuration flags shared by apply and
// profile save
type configFlags struct {
	profile string
	dhcp    bool
	address string
	mask    string
	gateway string
	dns     []string
}

func (f *configFlags) register(cmd *cobra.Command, withProfile bool) {
	if withProfile {
		cmd.Flags().StringVar(&f.profile, "profile", "", "apply a stored profile by name")
	}
	cmd.Flags().BoolVar(&f.dhcp, "dhcp", false, "obtain address, gateway and DNS via DHCP")
	cmd.Flags().StringVar(&f.address, "address", "", "static IPv4 address")
	cmd.Flags().StringVar(&f.mask, "mask", "", "subnet mask in dotted form")
	cmd.Flags().StringVar(&f.gateway, "gateway", "", "default gateway")
	cmd.Flags().StringSliceVar(&f.dns, "dns", nil, "DNS servers in preference order")
}

func (f *configFlags) toConfig() entities.NetworkConfig {
	if f.dhcp {
		return entities.NetworkConfig{Mode: entities.ModeDHCP}
	}
	return entities.NetworkConfig{
		Mode:       entities.ModeStatic,
		Address:    f.address,
		SubnetMask: f.mask,
		Gateway:    f.gateway,
		DNSServers: f.dns,
	}
}

func newRootCommand(c *container.Container, logger *logrus.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "netprofile",
		Short:         "Transactional network profile agent",
		Long:          "Switches a machine's interface configuration between named profiles with durable single-step undo.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newApplyCommand(c),
		newUndoCommand(c),
		newInterfacesCommand(c),
		newProfileCommand(c),
		newServeCommand(c, logger),
		newVersionCommand(),
	)

	return rootCmd
}

func newApplyCommand(c *container.Container) *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "apply <interface>...",
		Short: "Apply a configuration to one or more interfaces",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := resolveConfig(ctx, c, &flags)
			if err != nil {
				return err
			}

			// Interfaces run concurrently; the engine serializes per
			// interface internally.
			engine := c.GetEngine()
			outcomes := make([]<-chan usecases.Outcome, len(args))
			for i, iface := range args {
				outcomes[i] = engine.ApplyAsync(ctx, iface, cfg)
			}

			var failed bool
			for i, ch := range outcomes {
				outcome := <-ch
				if !printOutcome(cmd, c, args[i], outcome) {
					failed = true
				}
			}
			if failed {
				return fmt.Errorf("one or more interfaces were not configured")
			}
			return nil
		},
	}

	flags.register(cmd, true)
	return cmd
}

func newUndoCommand(c *container.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <interface>...",
		Short: "Restore the configuration recorded before the last apply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			engine := c.GetEngine()
			outcomes := make([]<-chan usecases.Outcome, len(args))
			for i, iface := range args {
				outcomes[i] = engine.UndoAsync(ctx, iface)
			}

			var failed bool
			for i, ch := range outcomes {
				outcome := <-ch
				if !printOutcome(cmd, c, args[i], outcome) {
					failed = true
				}
			}
			if failed {
				return fmt.Errorf("one or more interfaces were not restored")
			}
			return nil
		},
	}
}

func newInterfacesCommand(c *container.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "interfaces",
		Short: "List network interfaces and their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := c.GetInventory().List(cmd.Context())
			if err != nil {
				return err
			}
			for _, info := range infos {
				cmd.Printf("%-30s %s\n", info.Name, info.Status)
			}
			return nil
		},
	}
}

func newProfileCommand(c *container.Container) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage stored configuration profiles",
	}

	var flags configFlags
	saveCmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Create or replace a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := entities.Profile{Name: args[0], Config: flags.toConfig()}
			if err := c.GetProfileStore().Save(cmd.Context(), profile); err != nil {
				return err
			}
			cmd.Printf("profile %q saved\n", args[0])
			return nil
		},
	}
	flags.register(saveCmd, false)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := c.GetProfileStore().List(cmd.Context())
			if err != nil {
				return err
			}
			for i := range profiles {
				cmd.Printf("%-20s %s\n", profiles[i].Name, profiles[i].Config.String())
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := c.GetProfileStore().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if profile == nil {
				return fmt.Errorf("no such profile: %s", args[0])
			}
			cmd.Println(profile.Config.String())
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.GetProfileStore().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Printf("profile %q deleted\n", args[0])
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import profiles from a YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			count, err := c.GetProfileStore().Import(cmd.Context(), data)
			if err != nil {
				return err
			}
			cmd.Printf("%d profiles imported\n", count)
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export all profiles as a YAML document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.GetProfileStore().Export(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return os.WriteFile(args[0], data, 0o600)
			}
			cmd.Print(string(data))
			return nil
		},
	}

	profileCmd.AddCommand(saveCmd, listCmd, showCmd, deleteCmd, importCmd, exportCmd)
	return profileCmd
}

func newServeCommand(c *container.Container, logger *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the agent as a local HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.GetConfig()

			hostname, _ := os.Hostname()
			platform, _ := c.GetPlatformDetector().Detect()
			metrics.SetAgentInfo(version, string(platform), hostname)

			mux := http.NewServeMux()
			mux.Handle("/healthz", c.GetHealthService())
			mux.Handle("/metrics", promhttp.Handler())

			apiServer := api.NewServer(
				c.GetEngine(),
				c.GetInventory(),
				c.GetProfileStore(),
				c.GetTranslator(),
				logger,
			)
			apiServer.Routes(mux)

			server := &http.Server{
				Addr:    "127.0.0.1:" + cfg.Health.Port,
				Handler: mux,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.WithField("addr", server.Addr).Info("Agent HTTP server started")
				if err := server.ListenAndServe(); err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigChan:
				logger.Info("Received shutdown signal")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the agent version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version)
		},
	}
}

// resolveConfig picks the profile or the inline flags
func resolveConfig(ctx context.Context, c *container.Container, flags *configFlags) (entities.NetworkConfig, error) {
	if flags.profile != "" {
		profile, err := c.GetProfileStore().Get(ctx, flags.profile)
		if err != nil {
			return entities.NetworkConfig{}, err
		}
		if profile == nil {
			return entities.NetworkConfig{}, fmt.Errorf("no such profile: %s", flags.profile)
		}
		return profile.Config, nil
	}
	return flags.toConfig(), nil
}

// printOutcome reports one transaction outcome on the command's output.
// Returns false when the transaction failed.
func printOutcome(cmd *cobra.Command, c *container.Container, iface string, outcome usecases.Outcome) bool {
	translator := c.GetTranslator()

	if outcome.Result == nil {
		cmd.PrintErrf("%s: %v\n", iface, outcome.Err)
		return false
	}

	result := outcome.Result
	cmd.Printf("%s: %s\n", iface, translator.Translate(result.MessageKey))
	if result.Detail != "" {
		cmd.Printf("%s: %s\n", iface, result.Detail)
	}
	for _, warning := range result.Warnings {
		cmd.PrintErrf("%s: warning: %s\n", iface, translator.Translate(warning))
	}
	if result.Partial {
		cmd.PrintErrf("%s: partial change is in effect; run `netprofile undo %s` to restore\n", iface, iface)
	}
	return result.Success
}
