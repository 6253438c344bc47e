// Package user implements the user admin commands.
package user

import (
	"strconv"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/genesisgates/genesis/cmd"
	"github.com/genesisgates/genesis/pkg/backend"
	"github.com/genesisgates/genesis/pkg/proto"
	"github.com/spf13/cobra"
)

// Command is the user command.
var Command = &cobra.Command{
	Use:                "user",
	Aliases:            []string{"users"},
	Short:              "Manage members",
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
}

func init() {
	userListCommand := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List members",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			users, err := be.Users(ctx)
			if err != nil {
				return err
			}

			if len(users) == 0 {
				cmd.Println("No members found")
				return nil
			}

			return tablewriter.Render(
				cmd.OutOrStdout(),
				users,
				[]string{"ID", "Email", "Plan", "Verified", "Joined"},
				func(u proto.User) ([]string, error) {
					return []string{
						strconv.FormatInt(u.ID(), 10),
						u.Email(),
						u.Plan().String(),
						strconv.FormatBool(u.IsVerified()),
						humanize.Time(u.CreatedAt()),
					}, nil
				},
			)
		},
	}

	userInfoCommand := &cobra.Command{
		Use:   "info EMAIL",
		Short: "Show information about a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			user, err := be.UserByEmail(ctx, args[0])
			if err != nil {
				return err
			}

			trees, err := be.UserTrees(ctx, user)
			if err != nil {
				return err
			}

			cmd.Printf("ID: %d\n", user.ID())
			cmd.Printf("Email: %s\n", user.Email())
			cmd.Printf("Plan: %s\n", user.Plan())
			cmd.Printf("Verified: %t\n", user.IsVerified())
			cmd.Printf("Joined: %s\n", humanize.Time(user.CreatedAt()))
			cmd.Printf("Trees: %d\n", len(trees))
			return nil
		},
	}

	userSetPlanCommand := &cobra.Command{
		Use:     "plan EMAIL [free|premium]",
		Aliases: []string{"set-plan"},
		Short:   "Change a member's plan",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			user, err := be.UserByEmail(ctx, args[0])
			if err != nil {
				return err
			}

			_, err = be.SetUserPlan(ctx, user, args[1])
			return err
		},
	}

	Command.AddCommand(
		userListCommand,
		userInfoCommand,
		userSetPlanCommand,
	)
}
