package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/jpoet/errors"
	"github.com/teranos/jpoet/logger"
)

// CheckCmd verifies that generated sources on disk match their descriptors
var CheckCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	flags := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "check <descriptor>...",
		Short: "Verify generated sources are up to date",
		Long: `Render descriptors in memory and compare them with the files under the
output directory. Stale files are shown as a line diff (- on disk, + expected).
Exits non-zero when anything is missing or out of date.

Examples:
  jpoet check -o src/main/java api/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolveConfig(cmd)
			if err != nil {
				return err
			}

			files, err := buildAll(args, defaultsFor(cfg))
			if err != nil {
				return err
			}

			// check always reads the local tree, whatever sink is configured
			dir := cfg.Output.Dir
			if cmd.Flags().Changed("output") {
				dir = flags.output
			}

			stale, err := checkFiles(cmd.OutOrStdout(), outputFs, dir, files)
			if err != nil {
				return err
			}
			if stale > 0 {
				return errors.Newf("%d of %d generated files are out of date", stale, len(files))
			}

			logger.Infow("Generated sources are up to date",
				logger.FieldCommand, "check",
				logger.FieldCount, len(files))
			return nil
		},
	}
	flags.register(cmd, false)
	return cmd
}

// checkFiles compares each rendered file with its copy under dir, printing a
// report for every mismatch. It returns how many files were stale or missing.
func checkFiles(out io.Writer, fs afero.Fs, dir string, files []rendered) (int, error) {
	stale := 0
	for _, r := range files {
		path := expectedPath(dir, r.file)
		want := r.file.String()

		got, err := afero.ReadFile(fs, path)
		if os.IsNotExist(err) {
			stale++
			fmt.Fprintf(out, "%s %s (from %s)\n", pterm.Yellow("missing"), path, r.path)
			continue
		}
		if err != nil {
			return stale, errors.WrapIOf(err, "read %s", path)
		}

		if string(got) == want {
			logger.Debugw("Up to date", logger.FieldFile, path)
			continue
		}

		stale++
		fmt.Fprintf(out, "%s %s (from %s)\n", pterm.Yellow("stale"), path, r.path)
		fmt.Fprint(out, lineDiff(string(got), want))
	}
	return stale, nil
}

// lineDiff renders a line-oriented diff of old against new. Unchanged lines
// are prefixed with two spaces, removed lines with "- " (red) and added
// lines with "+ " (green).
func lineDiff(old, new string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix, color := "  ", fmt.Sprint
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix, color = "- ", pterm.Red
		case diffmatchpatch.DiffInsert:
			prefix, color = "+ ", pterm.Green
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(color(prefix + strings.TrimSuffix(line, "\n")))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
