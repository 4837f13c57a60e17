package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/sigmetrics/sigsite"
	"github.com/sigmetrics/sigsite/content"
	"github.com/sigmetrics/sigsite/scaffold"
)

// loadBundle loads an edition and applies the optional overlay file.
func loadBundle(edition, overlay string) (content.Bundle, error) {
	b, err := content.Load(content.Edition(edition))
	if err != nil {
		return content.Bundle{}, fmt.Errorf("edition %q: %w", edition, err)
	}
	if overlay == "" {
		return b, nil
	}
	o, err := content.ReadOverlay(overlay)
	if err != nil {
		return content.Bundle{}, err
	}
	return b.Apply(o), nil
}

func newExportCommand() *cobra.Command {
	var edition, overlay, format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the content records as JSON or YAML",
		Long: `Write the content records of an edition, after the optional overlay,
as JSON or YAML. The output is a starting point for a full overlay file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBundle(edition, overlay)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := b.Encode(&buf, content.Format(format)); err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			return renameio.WriteFile(out, buf.Bytes(), 0o644)
		},
	}
	cmd.Flags().StringVar(&edition, "edition", sigsite.EnvOr("SITE_EDITION", string(content.EditionWebsite)), "Content edition")
	cmd.Flags().StringVar(&overlay, "overlay", "", "YAML content overlay file")
	cmd.Flags().StringVar(&format, "format", string(content.FormatJSON), "Output format (json, yaml)")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file (- for stdout)")
	return cmd
}

func newValidateCommand() *cobra.Command {
	var edition, overlay string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the content records",
		Long: `Check the content records of one edition, or of every edition when
--edition is not given, and report every violation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			editions := content.Editions()
			if edition != "" {
				editions = []content.Edition{content.Edition(edition)}
			}
			var errs []error
			for _, e := range editions {
				b, err := loadBundle(string(e), overlay)
				if err == nil {
					err = content.Validate(b)
				}
				if err != nil {
					reportViolations(cmd.ErrOrStderr(), e, err)
					errs = append(errs, fmt.Errorf("edition %s: invalid content", e))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", e)
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().StringVar(&edition, "edition", "", "Content edition (default: all)")
	cmd.Flags().StringVar(&overlay, "overlay", "", "YAML content overlay file")
	return cmd
}

func reportViolations(w io.Writer, e content.Edition, err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, v := range joined.Unwrap() {
			fmt.Fprintf(w, "%s: %v\n", e, v)
		}
		return
	}
	fmt.Fprintf(w, "%s: %v\n", e, err)
}

func newInitCommand() *cobra.Command {
	var edition, siteURL string
	cmd := &cobra.Command{
		Use:   "init <dir>",
		Short: "Create the starter files of a new deployment",
		Long: `Create <dir> with an .env.example for serve and an overlay.yaml
listing every navigation page of the edition.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := content.Load(content.Edition(edition))
			if err != nil {
				return fmt.Errorf("edition %q: %w", edition, err)
			}
			created, err := scaffold.Write(args[0], scaffold.NewData(b, siteURL))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, p := range created {
				fmt.Fprintf(w, "  created %s\n", p)
			}
			fmt.Fprintf(w, "\nSet ADMIN_PASSWORD and SESSION_SECRET in .env to enable /admin/.\n")
			return nil
		},
	}
	cmd.Flags().StringVar(&edition, "edition", string(content.EditionWebsite), "Content edition")
	cmd.Flags().StringVar(&siteURL, "url", "http://localhost:3000", "Canonical site URL")
	return cmd
}
