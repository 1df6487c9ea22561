package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rusbywallet/rusby/internal/backup"
	"github.com/rusbywallet/rusby/internal/fileutil"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	backupOut  string
	backupName string

	splitShares    int
	splitThreshold int
	joinOut        string
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var (
	backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Export and import wallet backups",
		Long: `Backups hold the encrypted seed exactly as stored; the same password opens
them. Nothing is decrypted on export.`,
	}

	backupExportCmd = &cobra.Command{
		Use:   "export [name|index]",
		Short: "Write a backup of a wallet",
		Long: `Write a backup of a wallet, the active one by default, to the backup
directory or to --out.

Example:
  rusby backup export main
  rusby backup export --out /media/usb/main.rusby`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBackupExport,
	}

	backupImportCmd = &cobra.Command{
		Use:   "import <file>",
		Short: "Add a wallet from a backup file",
		Long: `Add a wallet from a backup file and make it active. You are asked for the
backup's password to confirm it opens.

Example:
  rusby backup import ~/.rusby/backups/main-2026-01-02-150405.rusby --name restored`,
		Args: cobra.ExactArgs(1),
		RunE: runBackupImport,
	}

	backupSplitCmd = &cobra.Command{
		Use:   "split <file>",
		Short: "Split a backup file into threshold shares",
		Long: `Split a backup file into shares so that any --threshold of them rebuild it.
Fewer shares reveal nothing about the backup. The rebuilt backup still
needs the wallet password.

Example:
  rusby backup split main.rusby --shares 5 --threshold 3`,
		Args: cobra.ExactArgs(1),
		RunE: runBackupSplit,
	}

	backupJoinCmd = &cobra.Command{
		Use:   "join <share>...",
		Short: "Rebuild a backup file from shares",
		Long: `Rebuild a backup file from at least threshold shares and write it to --out.

Example:
  rusby backup join rusby-share-1-3-1-... rusby-share-1-3-4-... rusby-share-1-3-5-... --out main.rusby`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBackupJoin,
	}

	backupListCmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List backups in the backup directory",
		Args:    cobra.NoArgs,
		RunE:    runBackupList,
	}
)

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupExportCmd, backupImportCmd, backupSplitCmd, backupJoinCmd, backupListCmd)

	backupExportCmd.Flags().StringVar(&backupOut, "out", "", "write the backup to this path instead")
	backupImportCmd.Flags().StringVar(&backupName, "name", "", "name for the imported wallet (required)")
	_ = backupImportCmd.MarkFlagRequired("name")

	backupSplitCmd.Flags().IntVar(&splitShares, "shares", 3, "number of shares to create")
	backupSplitCmd.Flags().IntVar(&splitThreshold, "threshold", 2, "shares needed to rebuild the backup")
	backupJoinCmd.Flags().StringVar(&joinOut, "out", "", "path for the rebuilt backup (required)")
	_ = backupJoinCmd.MarkFlagRequired("out")
}

func runBackupExport(cmd *cobra.Command, args []string) error {
	ctx := GetCmdContext(cmd)

	store, err := ctx.Storage.Load()
	if err != nil {
		return err
	}
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	idx, err := resolveWallet(store, arg)
	if err != nil {
		return err
	}
	entry, err := store.Entry(idx)
	if err != nil {
		return err
	}

	path := backupOut
	if path == "" {
		path, err = backup.NewService(ctx.Cfg.BackupDir()).Create(entry)
	} else if exists(path) {
		err = walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{"reason": "file exists", "path": path})
	} else {
		var data []byte
		if data, err = backup.Export(entry, timeNow()); err == nil {
			err = fileutil.WriteAtomic(path, data, backup.FilePermissions)
		}
	}
	if err != nil {
		return err
	}
	ctx.Log.Debug("wallet %s exported", entry.Name)

	return ctx.Fmt.Result(map[string]string{"wallet": entry.Name, "path": path}, func(w io.Writer) error {
		out(w, "Backup of %q written to %s\n", entry.Name, path)
		return nil
	})
}

func runBackupImport(cmd *cobra.Command, args []string) error {
	ctx := GetCmdContext(cmd)

	store, err := ctx.Storage.Load()
	if err != nil {
		return err
	}

	password, err := promptPasswordFn("Enter backup password: ")
	if err != nil {
		return err
	}
	defer rusbycrypto.Zero(password)

	idx, err := backup.NewService(ctx.Cfg.BackupDir()).Restore(store, args[0], backupName, password)
	if err != nil {
		ctx.Log.Error("import backup: %v", err)
		return err
	}
	if err := ctx.Storage.Save(store); err != nil {
		return err
	}
	ctx.Log.Debug("wallet %s imported at index %d", backupName, idx)

	return ctx.Fmt.Result(map[string]any{"name": backupName, "index": idx, "active": true}, func(w io.Writer) error {
		out(w, "Imported wallet %q (index %d) and made it active.\n", backupName, idx)
		return nil
	})
}

func runBackupSplit(cmd *cobra.Command, args []string) error {
	ctx := GetCmdContext(cmd)

	data, err := backup.NewService(ctx.Cfg.BackupDir()).ReadFile(args[0])
	if err != nil {
		return err
	}
	shares, err := backup.SplitShares(data, splitShares, splitThreshold)
	if err != nil {
		return err
	}
	ctx.Log.Debug("backup split into %d shares, threshold %d", splitShares, splitThreshold)

	return ctx.Fmt.Result(map[string]any{"threshold": splitThreshold, "shares": shares}, func(w io.Writer) error {
		out(w, "Any %d of these %d shares rebuild the backup. Store them apart.\n\n", splitThreshold, len(shares))
		for _, s := range shares {
			outln(w, s)
		}
		return nil
	})
}

func runBackupJoin(cmd *cobra.Command, args []string) error {
	ctx := GetCmdContext(cmd)

	if exists(joinOut) {
		return walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{"reason": "file exists", "path": joinOut})
	}
	data, err := backup.JoinShares(args)
	if err != nil {
		return err
	}
	if err := fileutil.WriteAtomic(joinOut, data, backup.FilePermissions); err != nil {
		return err
	}

	return ctx.Fmt.Result(map[string]string{"path": joinOut}, func(w io.Writer) error {
		out(w, "Backup rebuilt at %s\n", joinOut)
		return nil
	})
}

func runBackupList(cmd *cobra.Command, _ []string) error {
	ctx := GetCmdContext(cmd)
	svc := backup.NewService(ctx.Cfg.BackupDir())

	files, err := svc.List()
	if err != nil {
		return err
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, svc.Path(f))
	}

	return ctx.Fmt.Result(paths, func(w io.Writer) error {
		if len(paths) == 0 {
			out(w, "No backups in %s\n", ctx.Cfg.BackupDir())
			return nil
		}
		for _, p := range paths {
			outln(w, p)
		}
		return nil
	})
}

// exists reports whether path exists.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
