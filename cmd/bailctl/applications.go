package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"bailbridge-backend/models"

	"github.com/spf13/cobra"
)

var applicationsCmd = &cobra.Command{
	Use:     "applications",
	Aliases: []string{"apps"},
	Short:   "Manage bail applications",
	Long:    "Commands for submitting, listing, viewing, and assigning bail applications.",
}

// -- applications create --

var applicationsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a bail application from a JSON file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("file")

		var app models.CreateBailApplication
		if err := readJSONFile(path, &app); err != nil {
			return err
		}

		resp, err := newAPIClient(cmd).CreateBailApplication(cmd.Context(), app)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

// -- applications list --

var applicationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your bail applications",
	RunE: func(cmd *cobra.Command, _ []string) error {
		apps, err := newAPIClient(cmd).GetMyBailApplications(cmd.Context())
		if err != nil {
			return err
		}
		return printSummaries(cmd.OutOrStdout(), apps)
	},
}

// -- applications all --

var applicationsAllCmd = &cobra.Command{
	Use:   "all",
	Short: "List every bail application (lawyers)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		apps, err := newAPIClient(cmd).GetAllBailApplications(cmd.Context())
		if err != nil {
			return err
		}
		return printSummaries(cmd.OutOrStdout(), apps)
	},
}

// -- applications get --

var applicationsGetCmd = &cobra.Command{
	Use:   "get <application-number>",
	Short: "Show one bail application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAPIClient(cmd).GetBailApplication(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), app)
	},
}

// -- applications assign --

var applicationsAssignCmd = &cobra.Command{
	Use:   "assign <application-number>",
	Short: "Assign yourself as lawyer on a bail application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newAPIClient(cmd).AssignLawyerToCase(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

func printSummaries(out io.Writer, apps []models.BailApplicationSummary) error {
	if len(apps) == 0 {
		_, err := fmt.Fprintln(out, "No applications found.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tAPPLICANT\tFIR\tTYPE\tSTATUS\tCREATED")
	for _, a := range apps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ApplicationNumber, a.ApplicantName, a.FIRNumber, a.BailType, a.Status,
			a.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func init() {
	applicationsCreateCmd.Flags().String("file", "", "path to a JSON bail application")
	_ = applicationsCreateCmd.MarkFlagRequired("file")

	applicationsCmd.AddCommand(
		applicationsCreateCmd,
		applicationsListCmd,
		applicationsAllCmd,
		applicationsGetCmd,
		applicationsAssignCmd,
	)
	rootCmd.AddCommand(applicationsCmd)
}
