package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	urlpdf "github.com/porticus-lab/go-url-pdf"
	"github.com/porticus-lab/go-url-pdf/internal/worker"
)

var convertCmd = &cobra.Command{
	Use:   "convert <url> [output]",
	Short: "Render one page to a PDF file",
	Long: `Convert renders a single URL and writes the PDF. A URL without a scheme is
fetched over https. The output defaults to a name derived from the host, and
.pdf is appended when missing. Progress is reported on stderr.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	_, conv, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	output := urlpdf.SuggestOutputPath(args[0])
	if len(args) == 2 {
		output = args[1]
	}

	job := worker.Start(cmd.Context(), conv, urlpdf.Request{URL: args[0], OutputPath: output}, logger)
	return report(cmd.ErrOrStderr(), cmd.OutOrStdout(), job)
}

// report prints progress lines to errw and the written path to outw.
func report(errw, outw io.Writer, job *worker.Job) error {
	var done worker.Event
	for ev := range job.Events() {
		switch ev.Type {
		case worker.EventProgress:
			fmt.Fprintf(errw, "%3d%% %s\n", ev.Percent, ev.Stage)
		case worker.EventDone:
			done = ev
		}
	}
	if !done.Success {
		return done.Err
	}
	fmt.Fprintln(outw, done.Path)
	return nil
}
