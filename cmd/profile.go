package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"billing/internal/logger"
	"billing/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the business profile printed on invoices",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the business profile as JSON",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create or update the business profile",
	Long: `Create the business profile, or update it when one exists.

Name, business name and email are required on every save. Phone, address
and logo keep their stored values unless the flag is given; pass an
empty value to clear them. The logo is read from an image file of at most
2MB and stored inline.`,
	Example: `  billing profile save --name "Asha Rao" --business-name "Rao Stores" --email asha@raostores.in
  billing profile save --name "Asha Rao" --business-name "Rao Stores" --email asha@raostores.in --logo logo.png`,
	Args: cobra.NoArgs,
	RunE: runProfileSave,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the business profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileDelete,
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd, profileSaveCmd, profileDeleteCmd)

	profileShowCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")

	profileSaveCmd.Flags().String("name", "", "Your name (required)")
	profileSaveCmd.Flags().String("business-name", "", "Business name (required)")
	profileSaveCmd.Flags().String("email", "", "Business email (required)")
	profileSaveCmd.Flags().String("phone", "", "Phone number")
	profileSaveCmd.Flags().String("address", "", "Postal address")
	profileSaveCmd.Flags().String("logo", "", "Logo image file (empty to remove)")
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("profile")
	outputPath, _ := cmd.Flags().GetString("output")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.profiles.Get()
	if err != nil {
		return handleBillingError(err, log)
	}
	if p == nil {
		return fmt.Errorf("no business profile yet; create one with 'billing profile save'")
	}
	return writeJSON(p, outputPath, log)
}

func runProfileSave(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("profile")
	flags := cmd.Flags()

	in := profile.Input{}
	in.Name, _ = flags.GetString("name")
	in.BusinessName, _ = flags.GetString("business-name")
	in.Email, _ = flags.GetString("email")

	optional := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	in.Phone = optional("phone")
	in.Address = optional("address")

	if logoPath := optional("logo"); logoPath != nil {
		logo := ""
		if *logoPath != "" {
			var err error
			logo, err = profile.LogoFromFile(*logoPath)
			if err != nil {
				return handleBillingError(err, log)
			}
		}
		in.Logo = &logo
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.profiles.Save(in)
	if err != nil {
		return handleBillingError(err, log)
	}
	return writeJSON(p, "", log)
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("profile")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.profiles.Delete(); err != nil {
		return handleBillingError(err, log)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Profile deleted")
	return nil
}
