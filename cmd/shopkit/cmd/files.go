package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload an image file (admin)",
	Long: `Upload a file to the backend's file store and print its public
location. Use the location as --image-url when creating products.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

var rmFileCmd = &cobra.Command{
	Use:   "rm-file <filename>",
	Short: "Delete an uploaded file by its stored filename (admin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRmFile,
}

func init() {
	rootCmd.AddCommand(uploadCmd, rmFileCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	up, err := a.client.UploadFile(cmd.Context(), filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	if outputJSON {
		return printPayload(up)
	}
	fmt.Printf("Uploaded %s (%d bytes)\n", up.OriginalName, up.Size)
	fmt.Printf("  Stored as: %s\n", up.Filename)
	fmt.Printf("  Location:  %s\n", up.Location)
	return nil
}

func runRmFile(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	if err := a.client.DeleteFile(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted file %s\n", args[0])
	return nil
}
