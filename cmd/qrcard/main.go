package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/qrprofile/internal/logging"
	"github.com/redmonkez12/qrprofile/internal/profile"
	"github.com/redmonkez12/qrprofile/internal/qrcode"
	"github.com/redmonkez12/qrprofile/internal/qrimage"
	"github.com/redmonkez12/qrprofile/internal/share"
	"github.com/redmonkez12/qrprofile/internal/vcard"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "qrcard",
		Short:         "Turn contact details into a scannable QR code",
		Long:          "Builds a vCard from the given contact details and encodes it as a QR code that phone cameras import into the address book.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pngCmd := &cobra.Command{
		Use:   "png",
		Short: "Write the QR code as a PNG file",
		RunE:  runPNG,
	}
	pngCmd.Flags().StringP("output", "o", "contact.png", "Output file, - for stdout")

	base64Cmd := &cobra.Command{
		Use:   "base64",
		Short: "Print the QR code PNG as base64",
		RunE:  runBase64,
	}
	base64Cmd.Flags().Bool("data-uri", false, "Print a data: URI instead of bare base64")

	vcardCmd := &cobra.Command{
		Use:   "vcard",
		Short: "Print the vCard text",
		RunE:  runVCard,
	}

	for _, cmd := range []*cobra.Command{pngCmd, base64Cmd, vcardCmd} {
		addContactFlags(cmd)
	}
	for _, cmd := range []*cobra.Command{pngCmd, base64Cmd} {
		cmd.Flags().Int("size", qrimage.DefaultModuleSize, "Pixels per module")
		cmd.Flags().String("level", "M", "Error correction level (L, M, Q, H)")
	}

	rootCmd.AddCommand(pngCmd, base64Cmd, vcardCmd)
	return rootCmd
}

func addContactFlags(cmd *cobra.Command) {
	cmd.Flags().String("first", "", "First name")
	cmd.Flags().String("last", "", "Last name")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().String("linkedin", "", "LinkedIn profile URL")
	cmd.Flags().String("github", "", "GitHub profile URL")
	_ = cmd.MarkFlagRequired("first")
	_ = cmd.MarkFlagRequired("last")
	_ = cmd.MarkFlagRequired("email")
}

// contactFromFlags validates the contact flags the same way the API does.
func contactFromFlags(cmd *cobra.Command) (vcard.Contact, error) {
	var in profile.Input
	in.FirstName, _ = cmd.Flags().GetString("first")
	in.LastName, _ = cmd.Flags().GetString("last")
	in.Email, _ = cmd.Flags().GetString("email")
	in.Phone = optionalFlag(cmd, "phone")
	in.LinkedIn = optionalFlag(cmd, "linkedin")
	in.GitHub = optionalFlag(cmd, "github")

	in, err := in.Validate()
	if err != nil {
		return vcard.Contact{}, err
	}
	return in.Contact(), nil
}

func optionalFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func generate(cmd *cobra.Command) (*share.Payload, error) {
	contact, err := contactFromFlags(cmd)
	if err != nil {
		return nil, err
	}

	levelFlag, _ := cmd.Flags().GetString("level")
	level, err := qrcode.ParseLevel(levelFlag)
	if err != nil {
		return nil, err
	}
	size, _ := cmd.Flags().GetInt("size")

	logger := logging.New(cmd.ErrOrStderr(), false)
	pipeline := share.NewPipeline(level, size, nil, logger)
	return pipeline.Generate(cmd.Context(), contact, size)
}

func runPNG(cmd *cobra.Command, args []string) error {
	payload, err := generate(cmd)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "-" {
		_, err := cmd.OutOrStdout().Write(payload.Image.PNG)
		return err
	}

	if err := os.WriteFile(output, payload.Image.PNG, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (version %d, level %s, %dx%d px)\n",
		output, payload.Version, payload.Level, payload.Image.Width, payload.Image.Width)
	return nil
}

func runBase64(cmd *cobra.Command, args []string) error {
	payload, err := generate(cmd)
	if err != nil {
		return err
	}

	dataURI, _ := cmd.Flags().GetBool("data-uri")
	out := payload.Image.Base64
	if dataURI {
		out = payload.Image.DataURI()
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out+"\n")
	return err
}

func runVCard(cmd *cobra.Command, args []string) error {
	contact, err := contactFromFlags(cmd)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), vcard.Format(contact))
	return err
}
