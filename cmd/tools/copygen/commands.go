// cmd/tools/copygen/commands.go
package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"

	"copywriter/internal/common/config"
	apperrors "copywriter/internal/common/errors"
	"copywriter/internal/common/logger"
	"copywriter/internal/copywriting"
	"copywriter/internal/engine"
	"copywriter/internal/models"
	"copywriter/pkg/registry"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "copygen",
		Short: "Generate social-media post copy offline with the template engine",
		Long: `copygen runs the rule-based copy generator locally. No account,
network access or model key is needed.

Example:
  copygen generate --product "Travel Mug" --points "Leak-proof, Keeps hot 12h" --style Playful
  copygen styles`,
		SilenceUsage: true,
	}
	root.AddCommand(newGenerateCmd(), newStylesCmd(), newActivitiesCmd())
	return root
}

type generateOptions struct {
	product string
	points  string
	style   string
	seed    uint64
	asJSON  bool
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate titles, body and tags for one product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.product, "product", "p", "", "Product name (required)")
	cmd.Flags().StringVar(&opts.points, "points", "", "Selling points, comma separated (required)")
	cmd.Flags().StringVarP(&opts.style, "style", "s", "", "Style key; unknown or empty uses the default style")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Seed for reproducible output (0 picks a random seed)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the full result as JSON")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("points")
	return cmd
}

// cliGeneration mirrors the server defaults so offline output matches the API.
var cliGeneration = config.GenerationConfig{
	DefaultStyle:          string(engine.StylePlayful),
	MaxProductNameLength:  200,
	MaxSellingPointLength: 2000,
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	var engineOpts []engine.Option
	if opts.seed != 0 {
		seed := opts.seed
		engineOpts = append(engineOpts, engine.WithRandSource(func() engine.Rand {
			return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		}))
	}
	svc := copywriting.NewService(cliGeneration, logger.NewNoOpLogger(),
		copywriting.WithEngine(engine.New(engineOpts...)))

	result, err := svc.Generate(cmd.Context(), copywriting.SourceCLI, models.GenerateRequest{
		ProductName:  opts.product,
		SellingPoint: opts.points,
		Style:        opts.style,
	})
	if err != nil {
		if stdErr := apperrors.AsStandardError(err); stdErr != nil && stdErr.Details != "" {
			return fmt.Errorf("%s: %s", stdErr.Message, stdErr.Details)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(result)
	}
	_, err = fmt.Fprintln(out, result.Text)
	return err
}

func newStylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List the available style keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, key := range engine.Styles() {
				profile := engine.GetStyle(string(key))
				fmt.Fprintf(out, "%-14s %d titles, %d bodies, tags: %s\n",
					key, len(profile.TitleTemplates()), len(profile.BodyTemplates()),
					strings.Join(profile.Tags(), " "))
			}
			return nil
		},
	}
}

func newActivitiesCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Validate and list the job types published to workflow modelers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "registry %s (%d activities)\n", reg.Version, len(reg.Activities))
			for _, a := range reg.Activities {
				fmt.Fprintf(out, "%-14s retries=%d timeout=%s errors=%s\n",
					a.TaskType, a.Retries, a.Timeout, strings.Join(a.ErrorCodes, ","))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "registry", "configs/activity-registry.json", "Path to the activity registry")
	return cmd
}
