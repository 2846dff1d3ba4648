package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	dgErrors "github.com/terassyi/drushgen/internal/errors"
	"github.com/terassyi/drushgen/internal/installer"
)

var _ = Describe("drushgen frontend", func() {
	var (
		workDir   string
		fetcher   *fakeFetcher
		extractor *fakeExtractor
	)

	execute := func(args ...string) error {
		cmd := newRootCmd(installer.WithFetcher(fetcher), installer.WithExtractor(extractor))
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	asConfigError := func(err error) *dgErrors.ConfigError {
		var cfgErr *dgErrors.ConfigError
		Expect(errors.As(err, &cfgErr)).To(BeTrue(), "expected *ConfigError, got %T: %v", err, err)
		return cfgErr
	}

	BeforeEach(func() {
		workDir = GinkgoT().TempDir()
		fetcher = &fakeFetcher{}
		extractor = &fakeExtractor{}
	})

	Context("when both the file and the flag set the base directory", func() {
		It("uses the flag", func() {
			fileBase := filepath.Join(workDir, "x")
			flagBase := filepath.Join(workDir, "y")
			file := writeConfigFile(workDir, "[drush]\nbase-dir = "+fileBase+"\n")

			By("Running with --base-dir")
			Expect(execute("--config-file", file, "--base-dir", flagBase)).To(Succeed())

			By("Checking everything was installed under the flag's directory")
			Expect(filepath.Join(flagBase, "bin", "drush")).To(BeARegularFile())
			Expect(filepath.Join(flagBase, "lib", "drush")).To(BeADirectory())
			Expect(fileBase).NotTo(BeAnExistingFile())
		})
	})

	Context("when only the file sets the base directory", func() {
		It("uses the file value", func() {
			fileBase := filepath.Join(workDir, "x")
			file := writeConfigFile(workDir, "[drush]\nbase-dir = "+fileBase+"\n")

			Expect(execute("-c", file)).To(Succeed())
			Expect(filepath.Join(fileBase, "bin", "drush")).To(BeARegularFile())
		})
	})

	Context("when the configuration file has no [drush] section", func() {
		It("fails with a configuration error before touching the filesystem", func() {
			base := filepath.Join(workDir, "site")
			Expect(os.Mkdir(base, 0755)).To(Succeed())
			file := writeConfigFile(workDir, "[site]\nbase-dir = "+base+"\n")

			err := execute("-c", file, "--base-dir", base)
			Expect(err).To(HaveOccurred())

			cfgErr := asConfigError(err)
			Expect(cfgErr.Section).To(Equal("drush"))
			Expect(cfgErr.Error()).To(ContainSubstring("[drush]"))

			entries, readErr := os.ReadDir(base)
			Expect(readErr).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
			Expect(fetcher.calls).To(BeEmpty())
		})
	})

	Context("when the requested configuration file does not exist", func() {
		It("fails with a configuration error", func() {
			base := filepath.Join(workDir, "site")
			missing := filepath.Join(workDir, "missing.ini")

			err := execute("-c", missing, "--base-dir", base)
			Expect(err).To(HaveOccurred())

			cfgErr := asConfigError(err)
			Expect(cfgErr.File).To(Equal(missing))
			Expect(base).NotTo(BeAnExistingFile())
		})
	})

	Context("when drush-command-dirs uses irregular whitespace", func() {
		It("writes each directory resolved against the base directory", func() {
			base := filepath.Join(workDir, "site")
			file := writeConfigFile(workDir, "[drush]\ndrush-command-dirs = a b\t\tc  a\n")

			Expect(execute("-c", file, "--base-dir", base)).To(Succeed())

			content, err := os.ReadFile(filepath.Join(base, "bin", "drush"))
			Expect(err).NotTo(HaveOccurred())

			want := strings.Join([]string{
				filepath.Join(base, "a"),
				filepath.Join(base, "b"),
				filepath.Join(base, "c"),
			}, ":")
			Expect(string(content)).To(ContainSubstring("--include='" + want + "'"))
		})
	})

	Context("when drush is already installed", func() {
		It("reinstalls only the command packages and regenerates the wrapper", func() {
			base := filepath.Join(workDir, "site")

			Expect(execute("--base-dir", base)).To(Succeed())
			Expect(fetcher.calls).To(HaveLen(2))

			wrapperPath := filepath.Join(base, "bin", "drush")
			Expect(os.Remove(wrapperPath)).To(Succeed())

			Expect(execute("--base-dir", base)).To(Succeed())
			Expect(fetcher.calls).To(HaveLen(3))
			Expect(fetcher.calls[2]).To(ContainSubstring("drush_make"))
			Expect(extractor.dests).To(HaveLen(3))
			Expect(wrapperPath).To(BeARegularFile())
		})
	})
})
