package commands

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-addressform/pkg/bitmap"
)

type thumbnailOptions struct {
	width  int
	height int
	output string
}

func newThumbnailCmd() *cobra.Command {
	opts := &thumbnailOptions{}

	cmd := &cobra.Command{
		Use:   "thumbnail <src>",
		Short: "Decode an image at a bounded size and write it as PNG",
		Long: `Decode a local file or http(s) URL into a bitmap no larger than needed
to cover the requested box. Remote hosts must appear in images.allowed_hosts
when that list is set. Failures produce a placeholder.`,
		Example: `  addressform thumbnail ./logo.jpg -w 200 -H 200 -O logo.png
  addressform thumbnail https://b.stripecdn.com/logo.png -w 64 -O icon.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			if opts.output == "" {
				return errors.New("--out is required")
			}
			width, height, err := bitmap.ResolveTarget(opts.width, opts.height)
			if err != nil {
				return err
			}

			src := args[0]
			var opener bitmap.Opener
			if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
				abs, err := filepath.Abs(src)
				if err != nil {
					return err
				}
				opener = bitmap.FSOpener{FS: os.DirFS(filepath.Dir(abs))}
				src = filepath.Base(abs)
			}
			loader := newImageLoader(s.Config, s.Logger, opener)

			bmp, loadErr := loader.LoadOrPlaceholder(cmd.Context(), src, width, height)
			if bmp == nil {
				return loadErr
			}

			var buf bytes.Buffer
			if err := png.Encode(&buf, bmp.Image); err != nil {
				return err
			}
			if err := os.WriteFile(opts.output, buf.Bytes(), 0o644); err != nil {
				return err
			}

			errOut := cmd.ErrOrStderr()
			if bmp.Placeholder {
				_, err = fmt.Fprintf(errOut, "placeholder %dx%d written to %s (%v)\n", bmp.Width, bmp.Height, opts.output, loadErr)
				return err
			}
			_, err = fmt.Fprintf(errOut, "%dx%d from %dx%d %s (sample size %d) written to %s\n",
				bmp.Width, bmp.Height, bmp.NativeWidth, bmp.NativeHeight, bmp.Format, bmp.SampleSize, opts.output)
			return err
		},
	}

	cmd.Flags().IntVarP(&opts.width, "width", "w", 0, "Maximum width (0 copies the height)")
	cmd.Flags().IntVarP(&opts.height, "height", "H", 0, "Maximum height (0 copies the width)")
	cmd.Flags().StringVarP(&opts.output, "out", "O", "", "Output PNG path")

	return cmd
}
