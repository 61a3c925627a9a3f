package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/rentflow/internal/lib/jwt"
	"github.com/magabrotheeeer/rentflow/internal/models"
)

// TokenCmd выпускает токен доступа к API, например для cron-задачи.
func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			subject, _ := cmd.Flags().GetString("subject")
			role, _ := cmd.Flags().GetString("role")
			if !slices.Contains([]string{models.RoleAdmin, models.RoleManager}, role) {
				return fmt.Errorf("role must be %s or %s, got %q", models.RoleAdmin, models.RoleManager, role)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.JWTSecretKey == "" {
				return errors.New("jwt secret key is not set")
			}

			token, err := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL).GenerateToken(subject, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("subject", "cron", "token subject")
	cmd.Flags().String("role", models.RoleAdmin, "token role (admin or manager)")
	return cmd
}
