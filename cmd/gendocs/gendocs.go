// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package gendocs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gardener/astroforge/pkg/mdx"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"k8s.io/klog/v2"
)

const (
	genDocsMarkdown genDocsFormat = iota
	genDocsManPages
	genDocsAstro
)

var genDocsFormats = []string{"md", "man", "astro"}

type genDocsCmdFlags struct {
	format      string
	destination string
}

type genDocsFormat int

func newGenDocsFormat(formatString string) (genDocsFormat, error) {
	switch formatString {
	case "md":
		return genDocsMarkdown, nil
	case "man":
		return genDocsManPages, nil
	case "astro":
		return genDocsAstro, nil
	}
	return 0, fmt.Errorf("unknown format '%s'. Must be one of %v", formatString, genDocsFormats)
}

// NewGenCmdDocs generates commands reference documentation
// as Markdown, man pages or Astro pages
func NewGenCmdDocs() *cobra.Command {
	flags := &genDocsCmdFlags{}
	command := &cobra.Command{
		Use:   "gen-cmd-docs",
		Short: "Generates commands reference documentation",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Root()
			c.DisableAutoGenTag = true
			format, err := newGenDocsFormat(flags.format)
			if err != nil {
				return err
			}
			destination := filepath.Clean(flags.destination)
			if err = os.MkdirAll(destination, os.ModePerm); err != nil {
				return err
			}
			switch format {
			case genDocsManPages:
				header := &doc.GenManHeader{
					Title:   "ASTROFORGE",
					Manual:  "Astroforge Command Reference",
					Section: "1",
				}
				return doc.GenManTree(c, header, destination)
			case genDocsAstro:
				return genAstroTree(c, destination)
			default:
				return doc.GenMarkdownTree(c, destination)
			}
		},
	}
	command.Flags().StringVarP(&flags.format, "format", "f", "md",
		"Specifies the generated documentation format. Must be one of: `md` (for markdown), `man` (for man pages) or `astro` (for Astro pages).")
	command.Flags().StringVarP(&flags.destination, "destination", "d", "",
		"Path to directory where the documentation will be generated. If it does not exist, it will be created. Required flag.")
	_ = command.MarkFlagRequired("destination")
	return command
}

// genAstroTree compiles the Markdown reference of c and its subcommands into
// Astro pages linking each other by route
func genAstroTree(c *cobra.Command, destination string) error {
	var errs *multierror.Error
	for _, sub := range c.Commands() {
		if !sub.IsAvailableCommand() || sub.IsAdditionalHelpTopicCommand() {
			continue
		}
		errs = multierror.Append(errs, genAstroTree(sub, destination))
	}
	var b strings.Builder
	route := func(name string) string { return strings.TrimSuffix(name, ".md") }
	if err := doc.GenMarkdownCustom(c, &b, route); err != nil {
		return multierror.Append(errs, err)
	}
	name := strings.ReplaceAll(c.CommandPath(), " ", "_") + ".astro"
	res, err := mdx.Compile([]byte(b.String()), mdx.Options{
		InputPath:  name,
		OutputPath: filepath.Join(destination, name),
	})
	if err != nil {
		return multierror.Append(errs, err)
	}
	p := filepath.Join(destination, name)
	if err = os.WriteFile(p, []byte(res.Markup), 0644); err != nil {
		return multierror.Append(errs, fmt.Errorf("error writing %s: %w", p, err))
	}
	klog.V(4).Infof("generated %s\n", p)
	return errs.ErrorOrNil()
}
