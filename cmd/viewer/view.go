package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"pdf-viewer/internal/client"
	"pdf-viewer/internal/config"
	"pdf-viewer/internal/source"
	"pdf-viewer/internal/viewer"
	"pdf-viewer/pkg/logger"
)

// Scale bounds mirror the zoom range offered by the toolbar.
const (
	minScale = 0.4
	maxScale = 4.0
)

var (
	viewScale          float64
	viewViewportHeight float64
	viewAPI            string
)

var viewCmd = &cobra.Command{
	Use:   "view <document>",
	Short: "Open a document and sweep through it",
	Long: `Open a PDF document (local path, file://, http:// or https:// URL), scroll
through it top to bottom, and report which pages each stop renders.

When --api is given, highlights for the document are fetched from the
highlight server and listed after the sweep.

Examples:
  viewer view ./book.pdf
  viewer view https://example.com/paper.pdf --scale 1.5
  viewer view ./book.pdf --api http://localhost:8080`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ref := args[0]

		cfg := config.NewConfig()
		appLogger := logger.NewLogger(cfg.GetLogLevel())

		scale := viewScale
		if scale < minScale {
			scale = minScale
		}
		if scale > maxScale {
			scale = maxScale
		}

		httpClient := &http.Client{Timeout: 60 * time.Second}
		pageSource := source.NewFitzSource(httpClient, appLogger)
		manager := viewer.NewViewportManager(pageSource, appLogger)
		heights := viewer.NewHeightIndex(cfg.GetDefaultPageHeight())
		v := viewer.NewViewer(manager, heights, cfg.GetVirtualBuffer(), cfg.GetDevicePixelRatio(), appLogger)
		defer v.Close()

		pageCount, err := v.Open(ctx, ref)
		if err != nil {
			return err
		}
		manager.SetScale(scale)
		v.SetViewportHeight(viewViewportHeight)

		fmt.Printf("%s: %d pages at %.0f%% zoom\n", ref, pageCount, scale*100)

		// Sweep the scroll position over the whole document. Heights refine
		// as pages are measured, so re-read the total each stop.
		scrollTop := 0.0
		for {
			window := v.Refresh(ctx)
			fmt.Printf("scrollTop %7.0f: pages %v (spacers %.0f / %.0f of %.0f)\n",
				scrollTop, window.Rendered, window.BeforeHeight, window.AfterHeight, window.TotalHeight)

			scrollTop += viewViewportHeight
			if scrollTop >= heights.TotalHeight(pageCount) {
				break
			}
			v.HandleScroll(ctx, scrollTop)
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		if viewAPI != "" {
			api := client.NewHighlightClient(viewAPI, httpClient, appLogger)
			highlights, err := api.List(ctx, ref)
			if err != nil {
				return err
			}
			fmt.Printf("\n%d highlights for %s\n", len(highlights), ref)
			for _, h := range highlights {
				fmt.Printf("  page %d: %q\n", h.Page, h.SelectedText)
			}
		}
		return nil
	},
}

func init() {
	viewCmd.Flags().Float64Var(&viewScale, "scale", 1.0, "zoom factor, clamped to [0.4, 4.0]")
	viewCmd.Flags().Float64Var(&viewViewportHeight, "viewport-height", 900, "viewport height in CSS pixels")
	viewCmd.Flags().StringVar(&viewAPI, "api", "", "highlight server base URL (optional)")
}
