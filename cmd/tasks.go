package cmd

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/sadopc/grinder/internal/store"
	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List task names, most recently used first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, rec, err := openRecorder()
		if err != nil {
			return err
		}
		defer st.Close()

		if name, _ := cmd.Flags().GetString("forget"); name != "" {
			if err := st.DeleteTask(name); err != nil {
				return err
			}
			cmd.Printf("Forgot %q\n", name)
			return nil
		}
		if sync, _ := cmd.Flags().GetBool("sync"); sync {
			if err := rec.SyncTasks(); err != nil {
				return err
			}
		}
		// TaskNames imports the log's names on first use.
		if _, err := rec.TaskNames(); err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		tasks, err := st.ListTasks(limit)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			cmd.Println("No task names yet")
			return nil
		}
		return writeTasksTable(cmd, tasks)
	},
}

func writeTasksTable(cmd *cobra.Command, tasks []store.TaskName) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	defer func() { _ = table.Close() }()

	table.Header([]string{"Task", "Uses", "Last used"})
	var data [][]string
	for _, t := range tasks {
		data = append(data, []string{t.Name, strconv.Itoa(t.UseCount), t.LastUsed.Format("2006/01/02 15:04")})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
