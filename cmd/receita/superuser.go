package main

import (
	"errors"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/receitaapp/receita-server/internal/di"
	domainerrors "github.com/receitaapp/receita-server/internal/errors"
	"github.com/receitaapp/receita-server/internal/service"
)

var (
	superuserEmail    string
	superuserPassword string
)

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create an account with staff and superuser flags",
	RunE:  runCreateSuperuser,
}

func init() {
	createSuperuserCmd.Flags().StringVar(&superuserEmail, "email", "", "Email address of the new account")
	createSuperuserCmd.Flags().StringVar(&superuserPassword, "password", "", "Password of the new account")
	_ = createSuperuserCmd.MarkFlagRequired("email")
	_ = createSuperuserCmd.MarkFlagRequired("password")
}

func runCreateSuperuser(cmd *cobra.Command, _ []string) error {
	injector := di.NewContainer(flags)
	defer func() { _ = injector.Shutdown() }()

	identity, err := do.Invoke[*service.IdentityService](injector)
	if err != nil {
		return err
	}

	user, err := identity.CreateSuperuser(cmd.Context(), superuserEmail, superuserPassword)
	if err != nil {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) && domainErr.Details != nil {
			return fmt.Errorf("%s: %v", domainErr.Message, domainErr.Details)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "superuser %s created (id %d)\n", user.Email, user.ID)
	return nil
}
