package main

import (
	"fmt"
	"time"

	"linkbird-backend/internal/client"

	"github.com/spf13/cobra"
)

func newCampaignsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "campaigns",
		Aliases: []string{"campaign"},
		Short:   "List and manage campaigns",
	}

	var q client.ListQuery
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List campaigns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			page, err := c.ListCampaigns(cmd.Context(), q)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), page, campaignTable(page))
		},
	}
	listFlags(listCmd, &q)

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show a campaign with its lead counts",
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
			campaign, err := c.GetCampaign(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), campaign, campaignDetail(campaign))
		},
	}

	var in client.CreateCampaignInput
	var startDate string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a campaign",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if startDate != "" {
				d, err := time.Parse(time.DateOnly, startDate)
				if err != nil {
					return fmt.Errorf("invalid start date '%s': use YYYY-MM-DD", startDate)
				}
				in.StartDate = &d
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			campaign, err := c.CreateCampaign(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), campaign, campaignDetail(campaign))
		},
	}
	createCmd.Flags().StringVar(&in.Name, "name", "", "Campaign name")
	createCmd.Flags().StringVar(&in.Status, "status", "", "Initial status (default draft)")
	createCmd.Flags().StringVar(&startDate, "start-date", "", "Start date, YYYY-MM-DD")
	_ = createCmd.MarkFlagRequired("name")

	statusCmd := &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Change a campaign's status",
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
			campaign, err := c.UpdateCampaign(cmd.Context(), id, client.UpdateCampaignInput{Status: &args[1]})
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), campaign, campaignDetail(campaign))
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a campaign that has no leads",
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
			if err := c.DeleteCampaign(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Campaign %d deleted\n", id)
			return nil
		},
	}

	cmd.AddCommand(listCmd, getCmd, createCmd, statusCmd, deleteCmd)
	return cmd
}
