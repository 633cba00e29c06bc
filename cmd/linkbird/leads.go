package main

import (
	"fmt"
	"os"

	"linkbird-backend/internal/client"

	"github.com/spf13/cobra"
)

func newLeadsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "leads",
		Aliases: []string{"lead"},
		Short:   "List and manage leads",
	}

	var q client.ListQuery
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List leads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			page, err := c.ListLeads(cmd.Context(), q)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), page, leadTable(page))
		},
	}
	listFlags(listCmd, &q)
	listCmd.Flags().UintVar(&q.CampaignID, "campaign", 0, "Only leads of this campaign")

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show a lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			lead, err := c.GetLead(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), lead, leadDetail(lead))
		},
	}

	var in client.CreateLeadInput
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Add a lead to a campaign",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			lead, err := c.CreateLead(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), lead, leadDetail(lead))
		},
	}
	createCmd.Flags().StringVar(&in.FirstName, "first-name", "", "First name")
	createCmd.Flags().StringVar(&in.LastName, "last-name", "", "Last name")
	createCmd.Flags().StringVar(&in.Email, "email", "", "Email address")
	createCmd.Flags().StringVar(&in.Company, "company", "", "Company")
	createCmd.Flags().StringVar(&in.Position, "position", "", "Position")
	createCmd.Flags().StringVar(&in.Notes, "notes", "", "Notes")
	createCmd.Flags().UintVar(&in.CampaignID, "campaign", 0, "Campaign ID")
	for _, name := range []string{"first-name", "last-name", "email", "campaign"} {
		_ = createCmd.MarkFlagRequired(name)
	}

	statusCmd := &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Change a lead's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			lead, err := c.UpdateLead(cmd.Context(), id, client.UpdateLeadInput{Status: &args[1]})
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), lead, leadDetail(lead))
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.DeleteLead(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lead %d deleted\n", id)
			return nil
		},
	}

	var eq client.ListQuery
	var file string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export matching leads as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if file != "" {
				f, err := os.Create(file)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", file, err)
				}
				defer f.Close()
				out = f
			}
			return c.ExportLeads(cmd.Context(), eq, out)
		},
	}
	exportCmd.Flags().StringVar(&eq.Search, "search", "", "Case-sensitive name search")
	exportCmd.Flags().StringVar(&eq.Status, "status", "", "Status filter")
	exportCmd.Flags().UintVar(&eq.CampaignID, "campaign", 0, "Only leads of this campaign")
	exportCmd.Flags().StringVar(&eq.SortBy, "sort-by", "", "Sort field")
	exportCmd.Flags().StringVar(&eq.SortOrder, "sort-order", "", "asc or desc")
	exportCmd.Flags().StringVarP(&file, "file", "f", "", "Write to a file instead of stdout")

	cmd.AddCommand(listCmd, getCmd, createCmd, statusCmd, deleteCmd, exportCmd)
	return cmd
}

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show campaign and lead totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			summary, err := c.DashboardStats(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), summary, dashboardTable(summary))
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user the session token belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			session, err := c.Session(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), session, sessionTable(session))
		},
	}
}
