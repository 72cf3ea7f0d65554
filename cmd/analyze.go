package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seo-optimizer/onpage/analyzer"
	"github.com/seo-optimizer/onpage/config"
	"github.com/seo-optimizer/onpage/loader"
	"github.com/seo-optimizer/onpage/presenter"
)

// Modes of the analyze command
const (
	modeFrontMatter   = "fm"
	modeNoFrontMatter = "no-fm"
)

type analyzeFlags struct {
	descField   string
	title       string
	description string
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var f analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze FILE DOMAIN (fm KEYWORD_FIELD | no-fm KEYWORD)",
		Short: "Review one Markdown file",
		Long: `Review one Markdown file for a focus keyword.

With "fm" the document's front matter supplies the title and KEYWORD_FIELD
names the field holding the keyword list; the first entry is the focus
keyword. --desc-field names the field holding the meta description.

With "no-fm" KEYWORD is the focus keyword, the title comes from --title or the
first top-level heading, and the meta description from --desc or the first
paragraph.

Links whose address contains DOMAIN count as internal.`,
		Example: `  onpage analyze post.md example.com fm tags --desc-field summary
  onpage analyze post.md example.com no-fm "focus keyword" --title "Your title"`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.loaderOptions(args)
			if err != nil {
				return err
			}
			if err := a.setup(cmd, config.LogLevelWarn); err != nil {
				return err
			}
			defer a.logger.Sync()
			return runAnalyze(cmd, a, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&f.descField, "desc-field", "", `front matter field holding the meta description, e.g. "summary" (fm mode)`)
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "title of the content (no-fm mode)")
	cmd.Flags().StringVarP(&f.description, "desc", "d", "", "meta description; defaults to the first 160 characters of the first paragraph (no-fm mode)")

	return cmd
}

func (f analyzeFlags) loaderOptions(args []string) (loader.Options, error) {
	opts := loader.Options{Domain: args[1]}

	switch strings.ToLower(strings.ReplaceAll(args[2], "_", "-")) {
	case modeFrontMatter:
		if f.title != "" || f.description != "" {
			return opts, fmt.Errorf("--title and --desc are only valid with %s", modeNoFrontMatter)
		}
		opts.FrontMatter = true
		opts.KeywordField = args[3]
		opts.DescriptionField = f.descField
	case modeNoFrontMatter:
		if f.descField != "" {
			return opts, fmt.Errorf("--desc-field is only valid with %s", modeFrontMatter)
		}
		opts.Keyword = args[3]
		opts.Title = f.title
		opts.Description = f.description
	default:
		return opts, fmt.Errorf("unknown mode %q: expected %s or %s", args[2], modeFrontMatter, modeNoFrontMatter)
	}
	return opts, nil
}

func runAnalyze(cmd *cobra.Command, a *app, path string, opts loader.Options) error {
	out := cmd.OutOrStdout()
	color := a.cfg.Color && presenter.ColorEnabled(out)

	p, err := presenter.New(out, presenter.Options{Format: a.cfg.Format, Color: color})
	if err != nil {
		return err
	}
	errp, err := presenter.New(cmd.ErrOrStderr(), presenter.Options{Format: a.cfg.Format, Color: a.cfg.Color && presenter.ColorEnabled(cmd.ErrOrStderr())})
	if err != nil {
		return err
	}

	seo, err := analyzer.New(analyzer.Options{
		DataDir:   a.cfg.DataDir,
		CacheTTL:  a.cfg.Cache.TTL,
		CacheSize: a.cfg.Cache.Size,
		Logger:    a.logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := seo.Shutdown(); err != nil {
			a.logger.Warn("Failed to shut down analyzer", zap.Error(err))
		}
	}()

	doc, cfg, err := loader.LoadFile(path, opts)
	if err == nil {
		var report *analyzer.Report
		report, err = seo.Analyze(cmd.Context(), doc, cfg)
		if err == nil {
			if err := p.Render(report); err != nil {
				return err
			}
			a.logger.Debug("Analysis rendered", zap.String("file", path), zap.Stringer("worst", report.Worst()))
			if a.cfg.Strict && report.Worst() == analyzer.SeverityFail {
				return &ExitError{Code: 2}
			}
			return nil
		}
	}

	if rerr := errp.RenderError(err); rerr != nil {
		return rerr
	}
	return &ExitError{Code: 1}
}
