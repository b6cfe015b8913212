package main

import (
	"fmt"
	"os"
	"strconv"

	"yatube/internal/repository"
	"yatube/internal/service"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var groupCmd = &cobra.Command{
	Use:     "group",
	Aliases: []string{"groups"},
	Short:   "Manage post groups",
}

var groupCreateCmd = &cobra.Command{
	Use:   "create <slug> <title>",
	Short: "Create a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		description, _ := cmd.Flags().GetString("description")
		groups := service.NewGroupService(repository.NewGroupRepository(db))
		group, err := groups.Create(cmd.Context(), service.CreateGroupInput{
			Slug:        args[0],
			Title:       args[1],
			Description: description,
		})
		if err != nil {
			return err
		}
		success("Created group %q (id %d)", group.Slug, group.ID)
		return nil
	},
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		groups, err := service.NewGroupService(repository.NewGroupRepository(db)).List(cmd.Context())
		if err != nil {
			return err
		}
		if len(groups) == 0 {
			fmt.Println("No groups yet")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetAutoWrapText(false)
		table.SetHeader([]string{"ID", "Slug", "Title", "Description"})
		for _, g := range groups {
			table.Append([]string{strconv.FormatUint(uint64(g.ID), 10), g.Slug, g.Title, g.Description})
		}
		table.Render()
		return nil
	},
}

func init() {
	groupCreateCmd.Flags().StringP("description", "d", "", "group description")
	groupCmd.AddCommand(groupCreateCmd, groupListCmd)
	RootCmd.AddCommand(groupCmd)
}
