package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironhall/kiosk/internal/model"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Member roster commands",
	}

	cmd.AddCommand(newUserGetCmd())
	cmd.AddCommand(newUserRegisterCmd())
	cmd.AddCommand(newUserUpdateCmd())

	return cmd
}

func newUserGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <badge>",
		Short: "Look up a member by badge id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actions.SetSearch(args[0])
			actions.RequestClient(cmd.Context(), args[0])

			entry, ok := store.State().Clients[model.Key(args[0])]
			if !ok {
				return fmt.Errorf("lookup did not resolve")
			}
			if entry.Err != "" {
				return fmt.Errorf("%s", entry.Err)
			}

			out := NewOutput(cfg.Output)
			out.Print(entry.Client)
			return nil
		},
	}
}

// memberFlags are the fields shared by register and update
type memberFlags struct {
	badge   string
	name    string
	email   string
	tag     string
	expires string
	debt    bool
	photo   string
}

func (f *memberFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.badge, "badge", "", "Badge id (required)")
	cmd.Flags().StringVar(&f.name, "name", "", "Member name")
	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.tag, "tag", "", "RFID tag id (capture one with 'kiosk scan')")
	cmd.Flags().StringVar(&f.expires, "expires", "", "Membership expiration (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&f.debt, "debt", false, "Member has outstanding debt")
	cmd.Flags().StringVar(&f.photo, "photo", "", "Path to a portrait image to upload")
	_ = cmd.MarkFlagRequired("badge")
}

func (f *memberFlags) client() (model.Client, error) {
	c := model.Client{
		BSID:  f.badge,
		Name:  f.name,
		Email: f.email,
		ID:    f.tag,
		Debt:  f.debt,
	}
	if f.expires != "" {
		t, err := time.Parse("2006-01-02", f.expires)
		if err != nil {
			return model.Client{}, fmt.Errorf("invalid --expires date: %w", err)
		}
		c.Expiration = t
	}
	return c, nil
}

func (f *memberFlags) photoBytes() ([]byte, error) {
	if f.photo == "" {
		return nil, nil
	}
	data, err := os.ReadFile(f.photo)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	return data, nil
}

func newUserRegisterCmd() *cobra.Command {
	var flags memberFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new member",
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitMember(cmd, &flags, http.MethodPost)
		},
	}

	flags.register(cmd)

	return cmd
}

func newUserUpdateCmd() *cobra.Command {
	var flags memberFlags

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update an existing member (empty fields keep their value)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitMember(cmd, &flags, http.MethodPut)
		},
	}

	flags.register(cmd)

	return cmd
}

func submitMember(cmd *cobra.Command, flags *memberFlags, method string) error {
	c, err := flags.client()
	if err != nil {
		return err
	}
	photo, err := flags.photoBytes()
	if err != nil {
		return err
	}

	actions.RequestRegister(cmd.Context(), c, photo, method)

	reg := store.State().Register
	if reg.Err != "" {
		return fmt.Errorf("%s", reg.Err)
	}

	out := NewOutput(cfg.Output)
	if method == http.MethodPut {
		out.PrintMessage("Member " + c.BSID + " updated")
	} else {
		out.PrintMessage("Member " + c.BSID + " registered")
	}
	return nil
}
