package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/marcus/truefocus/pkg/focus"
)

var wordsCmd = &cobra.Command{
	Use:   "words [sentence...]",
	Short: "Highlight the words of a sentence in turn",
	Long: `Highlight the words of a sentence in turn.

Without --manual the highlight moves to the next word every
duration + pause. With --manual it follows the pointer and stays on the
last word it touched.`,
	Example: `  truefocus words "Ship it today"
  truefocus words --manual --separator , "red,green,blue"`,
	RunE: runWords,
}

func addWordsFlags(fs *pflag.FlagSet) {
	fs.String("separator", focus.DefaultSeparator, "split the sentence on this string")
	fs.Bool("manual", false, "follow the pointer instead of cycling")
}

func runWords(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sentence := strings.Join(args, " ")
	return run(cmd, cfg, func(fc *focus.Config) {
		if sentence != "" {
			fc.Sentence = sentence
		}
		fc.Items = nil
	})
}

func init() {
	addWordsFlags(wordsCmd.Flags())
	addDisplayFlags(wordsCmd.Flags())
	rootCmd.AddCommand(wordsCmd)
}
