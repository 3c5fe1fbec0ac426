package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Hussein-Mazeh/givme/internal/service"
	"github.com/Hussein-Mazeh/givme/internal/vault"
)

func (a *app) rootCmd() *cobra.Command {
	var raw bool
	root := &cobra.Command{
		Use:   "givme [NAME]",
		Short: "givme - a local vault for your secrets",
		Long: `givme keeps named secrets in a local encrypted database, unlocked with a
single Master Key. The first run asks you to choose that key.

Running 'givme NAME' is the same as 'givme get NAME'.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return a.runGet(cmd, args[0], raw)
		},
	}

	root.Flags().BoolVarP(&raw, "raw", "r", false, "print only the value")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "path of the vault database")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "enable debug output")

	root.AddCommand(
		a.initCmd(),
		a.getCmd(),
		a.storeCmd(),
		a.deleteCmd(),
		a.encryptFileCmd(),
		a.decryptFileCmd(),
		a.secretKeyCmd(),
		a.versionCmd(),
	)
	return root
}

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Choose the Master Key of a new vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.Init(cmd.Context()); err != nil {
				return explain(err)
			}
			a.printf("%s Vault ready at %s\n", color.GreenString("✓"), a.cfg.DBPath)
			return nil
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Print a stored credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGet(cmd, args[0], raw)
		},
	}
	cmd.Flags().BoolVarP(&raw, "raw", "r", false, "print only the value")
	return cmd
}

func (a *app) runGet(cmd *cobra.Command, name string, raw bool) error {
	svc, err := a.unlocked(cmd.Context())
	if err != nil {
		return err
	}

	cred, err := svc.Get(cmd.Context(), name)
	if errors.Is(err, vault.ErrNotFound) {
		return userError{msg: fmt.Sprintf("Nothing stored under '%s'.", name)}
	}
	if err != nil {
		return explain(err)
	}

	if raw {
		a.printf("%s\n", cred.Value)
		return nil
	}
	a.printf("Here's your '%s': %s\n", name, cred.Value)
	if cred.HasInfo() {
		a.printf("Note: %s\n", cred.Info)
	}
	return nil
}

func (a *app) storeCmd() *cobra.Command {
	var (
		force bool
		info  string
	)
	cmd := &cobra.Command{
		Use:   "store NAME",
		Short: "Store a credential, asking before replacing an existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			svc, err := a.unlocked(cmd.Context())
			if err != nil {
				return err
			}

			value, err := a.prompt.ReadSecret(fmt.Sprintf("Value for '%s': ", name))
			if err != nil {
				return fmt.Errorf("read value: %w", err)
			}
			if value == "" {
				return userError{msg: "Refusing to store an empty value."}
			}
			if !cmd.Flags().Changed("info") {
				info, err = a.prompt.ReadLine("Note (optional): ")
				if err != nil {
					return fmt.Errorf("read note: %w", err)
				}
			}

			err = svc.Store(cmd.Context(), vault.NewCredential(name, value, strings.TrimSpace(info)), force)
			if errors.Is(err, service.ErrNotOverwritten) {
				a.printf("Kept the existing '%s'.\n", name)
				return nil
			}
			if err != nil {
				return explain(err)
			}
			a.printf("%s Stored '%s'\n", color.GreenString("✓"), name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite without asking")
	cmd.Flags().StringVarP(&info, "info", "i", "", "note stored with the credential")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a stored credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			svc, err := a.unlocked(cmd.Context())
			if err != nil {
				return err
			}

			existed, err := svc.Delete(cmd.Context(), name)
			if err != nil {
				return explain(err)
			}
			if !existed {
				a.printf("Nothing stored under '%s'.\n", name)
				return nil
			}
			a.printf("%s Deleted '%s'\n", color.GreenString("✓"), name)
			return nil
		},
	}
}

func (a *app) encryptFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt-file SRC DST",
		Short: "Encrypt a file with the vault keys",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFile(cmd, args[0], args[1], true)
		},
	}
}

func (a *app) decryptFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt-file SRC DST",
		Short: "Decrypt a file produced by encrypt-file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFile(cmd, args[0], args[1], false)
		},
	}
}

func (a *app) runFile(cmd *cobra.Command, src, dst string, encrypt bool) error {
	svc, err := a.unlocked(cmd.Context())
	if err != nil {
		return err
	}

	verb, op := "Decrypting", svc.DecryptFile
	if encrypt {
		verb, op = "Encrypting", svc.EncryptFile
	}

	s, done := a.startSpinner(fmt.Sprintf("%s %s...", verb, src))
	defer done()

	if err := op(cmd.Context(), src, dst); err != nil {
		s.FinalMSG = color.RedString("✗") + " " + verb + " " + src + " failed\n"
		return userError{msg: err.Error()}
	}
	s.FinalMSG = color.GreenString("✓") + " Wrote " + dst + "\n"
	return nil
}

func (a *app) secretKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secret-key",
		Short: "Reveal the secret key protected by your Master Key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.unlocked(cmd.Context())
			if err != nil {
				return err
			}
			key, err := svc.SecretKey(cmd.Context())
			if err != nil {
				return explain(err)
			}
			a.printf("%s\n", key)
			return nil
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			a.printf("%s\n", cliVersion)
			return nil
		},
	}
}
