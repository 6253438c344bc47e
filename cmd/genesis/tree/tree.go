// Package tree implements the family tree admin commands. They act on
// behalf of the tree owner.
package tree

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/genesisgates/genesis/cmd"
	"github.com/genesisgates/genesis/pkg/backend"
	"github.com/genesisgates/genesis/pkg/proto"
	"github.com/spf13/cobra"
)

// Command is the tree command.
var Command = &cobra.Command{
	Use:                "tree",
	Aliases:            []string{"trees"},
	Short:              "Inspect family trees",
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
}

func init() {
	var owner string
	treeListCommand := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List public trees, or the trees of a member",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)

			var (
				trees []proto.TreeSummary
				err   error
			)
			if owner != "" {
				var user proto.User
				user, err = be.UserByEmail(ctx, owner)
				if err != nil {
					return err
				}
				trees, err = be.UserTrees(ctx, user)
			} else {
				trees, err = be.PublicTrees(ctx)
			}
			if err != nil {
				return err
			}

			if len(trees) == 0 {
				cmd.Println("No trees found")
				return nil
			}

			return tablewriter.Render(
				cmd.OutOrStdout(),
				trees,
				[]string{"ID", "Name", "Public", "Persons", "Created At"},
				func(s proto.TreeSummary) ([]string, error) {
					return []string{
						strconv.FormatInt(s.Tree.ID(), 10),
						s.Tree.Name(),
						strconv.FormatBool(s.Tree.IsPublic()),
						humanize.Comma(s.PersonCount),
						humanize.Time(s.Tree.CreatedAt()),
					}, nil
				},
			)
		},
	}

	treeListCommand.Flags().StringVar(&owner, "owner", "", "list the trees owned by this email")

	treeStructureCommand := &cobra.Command{
		Use:   "structure ID",
		Short: "Print the nested structure of a tree as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			t, u, err := treeOwner(cmd, args[0])
			if err != nil {
				return err
			}

			s, err := be.TreeStructure(ctx, u, t.ID())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		},
	}

	var output string
	treeExportCommand := &cobra.Command{
		Use:   "export ID",
		Short: "Export a tree as GEDCOM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			t, u, err := treeOwner(cmd, args[0])
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close() // nolint: errcheck
				w = f
			}

			return be.ExportGEDCOM(ctx, u, t.ID(), w)
		},
	}

	treeExportCommand.Flags().StringVarP(&output, "output", "o", "", "write the export to a file instead of stdout")

	Command.AddCommand(
		treeListCommand,
		treeStructureCommand,
		treeExportCommand,
	)
}

func treeOwner(cmd *cobra.Command, arg string) (proto.Tree, proto.User, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid tree id %q", arg)
	}

	ctx := cmd.Context()
	be := backend.FromContext(ctx)
	t, err := be.Tree(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	u, err := be.UserByID(ctx, t.OwnerID())
	if err != nil {
		return nil, nil, err
	}

	return t, u, nil
}
