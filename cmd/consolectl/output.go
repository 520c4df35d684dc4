package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/ignatzorin/proposals-console/internal/models"
	"github.com/ignatzorin/proposals-console/internal/view"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printProposals(w io.Writer, items []models.Proposal) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, view.MsgNoProposals)
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCLIENT\tCLIENT NAME\tSITE\tQUOTE\tBUDGET\tSTATUS")
	for _, p := range items {
		name := p.Name
		if name == "" {
			name = "Unnamed Proposal"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, name, view.NA(p.Client), view.NA(p.ClientName), view.NA(p.Site),
			view.NA(p.QuoteNumber), view.FormatBudget(p.Budget), view.NA(p.OpportunityStatus))
	}
	return tw.Flush()
}

func printProposal(w io.Writer, p *models.Proposal) error {
	tw := newTable(w)
	rows := [][2]string{
		{"ID", strconv.FormatInt(p.ID, 10)},
		{"Name", view.NA(p.Name)},
		{"Client", view.NA(p.Client)},
		{"Client Name", view.NA(p.ClientName)},
		{"Site", view.NA(p.Site)},
		{"Quote Number", view.NA(p.QuoteNumber)},
		{"Budget", view.FormatBudget(p.Budget)},
		{"Business Unit", view.NA(p.BusinessUnit)},
		{"Opportunity Status", view.NA(p.OpportunityStatus)},
		{"Resource Name", view.NA(p.ResourceName)},
		{"Created By", view.CreatorName(p.CreatedBy)},
		{"Created At", view.FormatTime(p.CreatedAt)},
		{"Updated At", view.FormatTime(p.UpdatedAt)},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	desc := p.Description
	if desc == "" {
		desc = "No description provided."
	}
	_, err := fmt.Fprintf(w, "\n%s\n", desc)
	return err
}

func printUsers(w io.Writer, users []models.User) error {
	if len(users) == 0 {
		_, err := fmt.Fprintln(w, view.MsgNoUsers)
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tNAME\tROLE\tSTATUS")
	for i := range users {
		u := &users[i]
		status := "active"
		if !u.Active() {
			status = "disabled"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.FullName(), u.Role, status)
	}
	return tw.Flush()
}
