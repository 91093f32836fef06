package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"propcare/internal/config"
	"propcare/internal/service"
	"propcare/pkg/logger"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(userCreateCmd(), userSetStatusCmd())
	return cmd
}

func userCreateCmd() *cobra.Command {
	var in service.RegisterInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a manager or staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			st, err := openStores(cmd.Context(), cfg, logger.New(cfg.Env))
			if err != nil {
				return err
			}
			defer st.Close()

			u, err := service.NewAuthService(st.users, cfg.SessionSecret, cfg.SessionTTL).Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", u.Role, u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&in.Role, "role", "manager", "manager or staff")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "10 digit phone number")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func userSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <user-id> <active|inactive>",
		Short: "Activate or deactivate an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			st, err := openStores(cmd.Context(), cfg, logger.New(cfg.Env))
			if err != nil {
				return err
			}
			defer st.Close()

			u, err := service.NewUserService(st.users).SetStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Email, u.Status)
			return nil
		},
	}
}
