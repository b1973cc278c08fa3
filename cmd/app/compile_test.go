// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package app_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/gardener/astroforge/cmd/app"
	"github.com/gardener/astroforge/cmd/configuration"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"k8s.io/utils/pointer"
)

type staticLoader struct {
	config *configuration.Config
	err    error
}

func (s *staticLoader) Load() (*configuration.Config, error) {
	return s.config, s.err
}

var _ = Describe("Compile command", func() {
	var (
		dir    string
		loader *staticLoader
		out    *bytes.Buffer
		args   []string
		err    error
	)

	BeforeEach(func() {
		dir, err = os.MkdirTemp("", "astroforge-app")
		Expect(err).NotTo(HaveOccurred())
		Expect(os.MkdirAll(filepath.Join(dir, "docs"), os.ModePerm)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "docs", "intro.md"), []byte("# Intro\n\nHello *world*\n"), 0644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "docs", "notes.txt"), []byte("not a document"), 0644)).To(Succeed())
		loader = &staticLoader{config: &configuration.Config{}}
		out = &bytes.Buffer{}
		args = []string{"--no-cache"}
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	JustBeforeEach(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		cmd := app.NewCompileCmd(ctx, loader)
		cmd.SetOut(out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		err = cmd.Execute()
	})

	Context("compiling a directory", func() {
		BeforeEach(func() {
			args = append(args, filepath.Join(dir, "docs"))
		})

		It("writes pages next to the sources", func() {
			Expect(err).NotTo(HaveOccurred())
			page, readErr := os.ReadFile(filepath.Join(dir, "docs", "intro.astro"))
			Expect(readErr).NotTo(HaveOccurred())
			Expect(string(page)).To(ContainSubstring(`<h1 id="intro">`))
			Expect(string(page)).To(ContainSubstring("<em>world</em>"))
			Expect(filepath.Join(dir, "docs", "notes.astro")).NotTo(BeAnExistingFile())
		})
	})

	Context("with a destination and the markdown format", func() {
		BeforeEach(func() {
			args = append(args, "--destination", filepath.Join(dir, "dist"), "--format", "markdown", filepath.Join(dir, "docs"))
		})

		It("writes markdown pages into the destination", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Join(dir, "dist", "intro.md")).To(BeAnExistingFile())
		})
	})

	Context("with a configuration file", func() {
		BeforeEach(func() {
			loader.config.ComponentsRoot = pointer.StringPtr("@ui")
			args = append(args, filepath.Join(dir, "docs", "intro.md"))
		})

		It("applies the configured values", func() {
			Expect(err).NotTo(HaveOccurred())
			page, readErr := os.ReadFile(filepath.Join(dir, "docs", "intro.astro"))
			Expect(readErr).NotTo(HaveOccurred())
			Expect(string(page)).To(ContainSubstring("from '@ui/Heading.svelte'"))
		})
	})

	Context("when loading the configuration fails", func() {
		BeforeEach(func() {
			loader.err = errors.New("bad config")
			args = append(args, filepath.Join(dir, "docs"))
		})

		It("fails", func() {
			Expect(err).To(MatchError("bad config"))
		})
	})

	Context("in dry run", func() {
		BeforeEach(func() {
			args = append(args, "--dry-run", filepath.Join(dir, "docs"))
		})

		It("prints the files instead of writing them", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Join(dir, "docs", "intro.astro")).NotTo(BeAnExistingFile())
			Expect(out.String()).To(ContainSubstring("intro.astro"))
			Expect(out.String()).To(ContainSubstring("components: Heading"))
			Expect(out.String()).To(ContainSubstring("Build finished in"))
		})
	})

	Context("with a broken source", func() {
		BeforeEach(func() {
			Expect(os.WriteFile(filepath.Join(dir, "docs", "broken.mdx"), []byte("# Broken\n\n[x]()\n"), 0644)).To(Succeed())
			args = append(args, filepath.Join(dir, "docs"))
		})

		It("reports the error and compiles the other sources", func() {
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("broken.mdx"))
			Expect(filepath.Join(dir, "docs", "intro.astro")).To(BeAnExistingFile())
		})
	})

	Context("watching with a broken source", func() {
		BeforeEach(func() {
			Expect(os.WriteFile(filepath.Join(dir, "docs", "broken.mdx"), []byte("# Broken\n\n[x]()\n"), 0644)).To(Succeed())
			args = append(args, "--watch", filepath.Join(dir, "docs"))
		})

		It("returns the errors of the initial batch when the watch ends", func() {
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("broken.mdx"))
			Expect(filepath.Join(dir, "docs", "intro.astro")).To(BeAnExistingFile())
		})
	})

	Context("compiling markdown next to a markdown source", func() {
		BeforeEach(func() {
			args = append(args, "--format", "markdown", filepath.Join(dir, "docs", "intro.md"))
		})

		It("leaves the source untouched", func() {
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("output would overwrite the source"))
			source, readErr := os.ReadFile(filepath.Join(dir, "docs", "intro.md"))
			Expect(readErr).NotTo(HaveOccurred())
			Expect(string(source)).To(Equal("# Intro\n\nHello *world*\n"))
		})
	})

	Context("without sources", func() {
		BeforeEach(func() {
			args = append(args, filepath.Join(dir, "docs", "notes.txt"), filepath.Join(dir, "missing"))
		})

		It("fails", func() {
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("does not exist"))
		})
	})

	Context("with an unknown format", func() {
		BeforeEach(func() {
			args = append(args, "--format", "html", filepath.Join(dir, "docs"))
		})

		It("fails", func() {
			Expect(err).To(MatchError("unknown format 'html'. Must be one of [astro markdown]"))
		})
	})
})

var _ = Describe("Root command", func() {
	It("prints the version", func() {
		out := &bytes.Buffer{}
		cmd := app.NewCommand(context.Background())
		cmd.SetOut(out)
		cmd.SetArgs([]string{"version"})
		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("binary was not built properly"))
	})

	It("requires inputs to compile", func() {
		cmd := app.NewCommand(context.Background())
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"compile"})
		Expect(cmd.Execute()).NotTo(Succeed())
	})
})
