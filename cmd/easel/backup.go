// Backup commands: create, restore, list.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/easel/internal/backup"
)

var backupDocumentID string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage document backups",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Back up the current document",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := callContext(cmd.Context())
		doc, _, err := svc.Runner().Client().Fetch(ctx, backupDocumentID)
		cancel()
		if err != nil {
			return err
		}
		backupID, err := svc.Runner().Backups().Save(backupDocumentID, doc)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(map[string]string{"backup_id": backupID})
		}
		fmt.Println("Backup:", backupID)
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <backup-id>",
	Short: "Restore a backup over the live document",
	Long: `Restore replaces the live document with a backup's contents. The
destructive-change screen is bypassed; the current state is backed up
first so the restore itself can be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.Restore(cmd.Context(), backupDocumentID, args[0])
		if err != nil {
			return err
		}
		return printResult("Restored backup", result)
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			return err
		}
		defer func() { _ = backend.Detach() }()

		infos, err := backup.NewStore(backend).List(backupDocumentID)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(infos)
		}
		if len(infos) == 0 {
			fmt.Println("No backups")
			return nil
		}
		for _, info := range infos {
			fmt.Printf("%s  %s  %d bytes\n", info.Key, info.CreatedAt.Format("2006-01-02 15:04:05"), info.Size)
		}
		return nil
	},
}

func init() {
	backupCmd.PersistentFlags().StringVar(&backupDocumentID, "document", "", "document ID")

	// list works without a document filter; create and restore do not.
	backupCreateCmd.PreRunE = requireDocumentFlag
	backupRestoreCmd.PreRunE = requireDocumentFlag

	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupListCmd)
}

func requireDocumentFlag(cmd *cobra.Command, args []string) error {
	if backupDocumentID == "" {
		return fmt.Errorf("--document is required")
	}
	return nil
}
