package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jiayuchou/prdgen/internal/pipeline"
)

var (
	genOutMD    string
	genOutJSON  string
	genStdout   bool
	genName     string
	genMaxBytes int64
	genNoCache  bool
	genNoFooter bool
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [transcript]",
	Short: "Generate a requirement document from one conversation transcript",
	Long: `Analyze a conversation transcript and write the resulting product
requirement document.

The transcript may be plain text or HTML (detected by file extension).
Project name, overview, objectives, target users, and requirement
statements are extracted with the built-in rules plus any extras from
the configuration.

Example:
  prdgen generate chat.txt
  prdgen generate chat.txt --md docs/prd.md --json docs/prd.json
  prdgen generate meeting.html --name "智慧课堂" --stdout`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&genOutMD, "md", "prd.md", "output Markdown path")
	generateCmd.Flags().StringVar(&genOutJSON, "json", "", "output JSON path (optional)")
	generateCmd.Flags().BoolVar(&genStdout, "stdout", false, "print Markdown to stdout instead of writing files")
	generateCmd.Flags().StringVar(&genName, "name", "", "override the extracted project name")
	generateCmd.Flags().Int64Var(&genMaxBytes, "max-bytes", 2_000_000, "max transcript bytes to read")
	generateCmd.Flags().BoolVar(&genNoCache, "no-cache", false, "disable cache (force fresh analysis)")
	generateCmd.Flags().BoolVar(&genNoFooter, "no-footer", false, "disable footer in Markdown documents")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Apply command-line flags
	cfg.Input.MaxBytes = genMaxBytes
	cfg.Cache.Enabled = !genNoCache
	cfg.Output.IncludeFooter = !genNoFooter

	chatty := verbose || cfg.Output.Verbose

	if chatty {
		fmt.Fprintf(os.Stderr, "Analyzing conversation: %s\n", path)
	}

	p := pipeline.NewPipeline(cfg)

	res, err := p.ProcessFile(path, genName)
	if err != nil {
		return err
	}

	doc := res.Document
	if chatty {
		if res.FromCache {
			fmt.Fprintln(os.Stderr, "✓ Document served from cache")
		}
		fmt.Fprintf(os.Stderr, "✓ Project: %s\n", doc.ProjectName)
		fmt.Fprintf(os.Stderr, "✓ Extracted %d requirements (%d functional, %d non-functional, %d technical)\n",
			doc.RequirementCount(),
			len(doc.FunctionalRequirements),
			len(doc.NonFunctionalRequirements),
			len(doc.TechnicalRequirements))
	}

	if genStdout {
		md, err := p.Renderer().MarkdownString(doc)
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		fmt.Print(md)

		// --json still writes a file alongside the stdout Markdown
		return p.RenderDocument(doc, genOutJSON, "", chatty)
	}

	return p.RenderDocument(doc, genOutJSON, genOutMD, chatty)
}
