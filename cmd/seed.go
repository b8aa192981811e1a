package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ninjapark-backend/services"
)

func seedRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-roles",
		Short: "Create or refresh the built-in roles and their permissions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			roles, err := services.EnsureRoles(cmd.Context(), a.db)
			if err != nil {
				return err
			}
			for _, r := range roles {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s: %s\n", r.Name, r.Description)
			}
			return nil
		},
	}
}

func setupSuperAdminCmd() *cobra.Command {
	var email, password, name string

	c := &cobra.Command{
		Use:   "setup-superadmin",
		Short: "Create or reset a SUPER_ADMIN account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			admin, created, err := services.EnsureSuperAdmin(cmd.Context(), a.db, email, password, name)
			if err != nil {
				return err
			}
			verb := "Updated"
			if created {
				verb = "Created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s super admin %s (id %d)\n", verb, admin.Email, admin.ID)
			return nil
		},
	}

	c.Flags().StringVar(&email, "email", services.DefaultAdminEmail, "Admin email")
	c.Flags().StringVar(&password, "password", "", "Admin password (required)")
	c.Flags().StringVar(&name, "name", "", "Display name")
	_ = c.MarkFlagRequired("password")
	return c
}

func seedContentCmd() *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "seed-content",
		Short: "Load CMS content from a YAML file; existing rows are left alone",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			seed, err := services.ParseContentSeed(f)
			if err != nil {
				return err
			}

			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := services.SeedContent(cmd.Context(), services.NewCMS(a.db), services.NewSettingsService(a.db), seed)
			for kind, n := range report {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d created\n", kind, n)
			}
			return err
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "content.yaml", "YAML content file")
	return c
}
