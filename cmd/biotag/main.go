// Command biotag annotates biomedical documents with a configured module
// pipeline and queries the stored annotations.
package main

import (
	"github.com/alecthomas/kong"
)

// CLI defines the command-line interface for biotag.
var CLI struct {
	LogLevel  string `name:"log-level" help:"Override the configured log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Override the configured log format (text, json)"`

	Run      RunCmd      `cmd:"" help:"Annotate every input document of a configuration"`
	Validate ValidateCmd `cmd:"" help:"Build and validate the configured pipeline"`
	Annotate AnnotateCmd `cmd:"" help:"Annotate one file and write the results to stdout"`
	Concepts ConceptsCmd `cmd:"" help:"List stored mentions of a concept"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("biotag"),
		kong.Description("Biomedical concept annotation pipeline"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
