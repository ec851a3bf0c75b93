package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "viewer",
	Short: "Paginated PDF viewer with shared highlights",
	Long: `Viewer renders paginated PDF documents with scroll virtualization and
keeps text highlights in a shared store.

Commands:
  serve  - run the highlight API server
  view   - open a document and sweep through it headlessly`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(func() {
		// Load environment variables from .env file
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or could not be loaded: %v", err)
		}
	})

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(viewCmd)
}
