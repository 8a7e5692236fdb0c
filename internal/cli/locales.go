package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yildizm/designtutor/internal/locale"
)

func newLocalesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List the supported tutorial languages",
		Long: `List the languages the interface and the generated tutorials are available in.
The active one, taken from locale.language, is marked with an asterisk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := locale.NewBundle(GetGlobalConfig().Locale.Language)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, tag := range bundle.Supported() {
				marker := " "
				if tag == bundle.Locale() {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-4s %s\n", marker, tag, bundle.Name(tag))
			}
			return nil
		},
	}
}
