package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/meetlink/internal/logging"
)

func newAuthCmd() *cobra.Command {
	var (
		flags credentialFlags
		force bool
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize meetlink and store the credential",
		Long: `Make sure a usable credential is stored, refreshing or authorizing as needed.

With --force the interactive authorization always runs and replaces the stored
credential, including one that can no longer be read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := newApp(ctx, cmd, &flags, nil)
			if err != nil {
				return err
			}
			defer rt.close()

			if force {
				_, err = rt.manager.Authorize(ctx)
			} else {
				_, err = rt.manager.Credentials(ctx)
			}
			if err != nil {
				rt.logger.Error("authorization failed", logging.Err(err))
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Credential stored in %s\n", rt.cfg.TokenFile)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&force, "force", false, "Run the authorization flow even if a credential is stored")

	return cmd
}
