package main

import (
	"fmt"

	"heartquiz/internal/config"
	"heartquiz/internal/model"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Save your profile and see which planet page it leads to",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		p := &model.Profile{}
		p.Name, _ = f.GetString("name")
		p.DOB, _ = f.GetString("dob")
		p.Email, _ = f.GetString("email")
		p.Phone, _ = f.GetString("phone")
		p.Gender, _ = f.GetString("gender")
		p.Bio, _ = f.GetString("bio")

		store, closeStore, err := openStore(cmd, config.LoadClient())
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer closeStore()

		if p.Name == "" && p.DOB == "" {
			saved, err := store.Profile(cmd.Context())
			if err != nil {
				return err
			}
			if saved == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No profile saved.")
				return nil
			}
			printProfile(cmd, saved)
			return nil
		}

		if err := p.Validate(); err != nil {
			return err
		}
		if err := store.SaveProfile(cmd.Context(), p); err != nil {
			return err
		}
		printProfile(cmd, p)
		return nil
	},
}

func printProfile(cmd *cobra.Command, p *model.Profile) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:   %s\n", p.Name)
	fmt.Fprintf(out, "Born:   %s\n", p.DOB)
	fmt.Fprintf(out, "Gender: %s\n", p.Gender)
	fmt.Fprintf(out, "Next:   %s\n", p.PlanetRoute())
}

func init() {
	f := profileCmd.Flags()
	f.String("name", "", "Your name")
	f.String("dob", "", "Date of birth (YYYY-MM-DD)")
	f.String("email", "", "Email address")
	f.String("phone", "", "10 digit phone number")
	f.String("gender", "", "Gender")
	f.String("bio", "", "A short bio")
}
