// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"flag"
	"strings"
	"sync"

	"github.com/gardener/astroforge/cmd/configuration"
	"github.com/gardener/astroforge/cmd/gendocs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

// EnvPrefix prefixes the environment variables setting command flags,
// e.g. ASTROFORGE_SITE_ORIGIN for --site-origin
const EnvPrefix = "ASTROFORGE"

var klogFlags sync.Once

// NewCommand creates a new root command and propagates
// the context to the Run callback closures of its subcommands
func NewCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "astroforge",
		Short: "Compile Markdown and MDX documents into Astro pages",
	}

	cmd.AddCommand(NewCompileCmd(ctx, new(configuration.DefaultConfigurationLoader)))
	cmd.AddCommand(NewVersionCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(gendocs.NewGenCmdDocs())

	klogFlags.Do(func() { klog.InitFlags(nil) })
	AddFlags(cmd)

	return cmd
}

// NewCompileCmd creates the compile command. Configuration file values are
// read with loader.
func NewCompileCmd(ctx context.Context, loader configuration.Loader) *cobra.Command {
	vip := newViper()
	cmd := &cobra.Command{
		Use:   "compile [flags] FILE|DIR...",
		Short: "Compile documents into Astro pages",
		Long: `Compiles each Markdown (.md) or MDX (.mdx) document into an Astro page.
Directories are searched recursively for documents. Files are compiled whatever their extension.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			config, err := loader.Load()
			if err != nil {
				return err
			}
			o, err := newOptions(vip, config)
			if err != nil {
				return err
			}
			return exec(ctx, o, args, cmd.OutOrStdout())
		},
	}
	configureFlags(cmd, vip)
	return cmd
}

func newViper() *viper.Viper {
	vip := viper.New()
	vip.SetEnvPrefix(EnvPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vip.AutomaticEnv()
	return vip
}

// AddFlags adds go flags to rootCmd
func AddFlags(rootCmd *cobra.Command) {
	flag.CommandLine.VisitAll(func(gf *flag.Flag) {
		rootCmd.PersistentFlags().AddGoFlag(gf)
	})
}

// Execute runs the root command and returns the process exit code
func Execute(ctx context.Context) int {
	if err := NewCommand(ctx).Execute(); err != nil {
		klog.Error(err)
		return 1
	}
	klog.Flush()
	return 0
}
