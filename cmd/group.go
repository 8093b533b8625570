package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/truefocus/pkg/focus"
)

var groupFile string

var groupCmd = &cobra.Command{
	Use:   "group [item...]",
	Short: "Highlight whichever block the pointer is over",
	Long: `Highlight whichever block the pointer is over.

Items come from the arguments, from --file (blocks separated by blank
lines, "-" for stdin), or from focus.items in the config file. The
highlight disappears when the pointer leaves the whole group.`,
	Example: `  truefocus group "Plan" "Build" "Ship"
  truefocus group --file cards.txt --item-style card`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		items := args
		if groupFile != "" {
			blocks, err := readBlockFile(cmd, groupFile)
			if err != nil {
				return err
			}
			items = append(items, blocks...)
		}
		if len(items) == 0 {
			items = cfg.Focus.Items
		}
		if len(items) == 0 {
			return errors.New("group needs at least one item")
		}

		return run(cmd, cfg, func(fc *focus.Config) {
			fc.Items = items
		})
	},
}

func readBlockFile(cmd *cobra.Command, path string) ([]string, error) {
	if path == "-" {
		return readBlocks(cmd.InOrStdin())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open items: %w", err)
	}
	defer f.Close()
	return readBlocks(f)
}

// readBlocks splits r into blocks separated by one or more blank lines.
// Lines inside a block keep their order; surrounding whitespace is trimmed.
func readBlocks(r io.Reader) ([]string, error) {
	var (
		blocks  []string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	flush()
	return blocks, nil
}

func init() {
	groupCmd.Flags().StringVarP(&groupFile, "file", "f", "", `read items from a file ("-" for stdin)`)
	addDisplayFlags(groupCmd.Flags())
	rootCmd.AddCommand(groupCmd)
}
