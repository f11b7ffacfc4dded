package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mahimpat/creatorcrafter/internal/graph"
	"github.com/mahimpat/creatorcrafter/internal/timeline"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Show the planned stages and clip timing as tables",
		RunE:  runInspect,
	}
}

type inspectStage struct {
	Index   int      `json:"index"`
	Kind    string   `json:"kind"`
	Inputs  []string `json:"inputs"`
	Chain   string   `json:"chain"`
	Output  string   `json:"output"`
}

type inspectClip struct {
	Source   string  `json:"source"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

type inspectReport struct {
	Clips  []inspectClip  `json:"clips"`
	Stages []inspectStage `json:"stages"`
}

func runInspect(cmd *cobra.Command, _ []string) error {
	job, spec, _, err := buildJob()
	if err != nil {
		return err
	}

	offsets, err := timeline.Offsets(spec.Clips, spec.Transitions)
	if err != nil {
		return err
	}

	report := inspectReport{}
	for i, clip := range spec.Clips {
		report.Clips = append(report.Clips, inspectClip{
			Source:   clip.Source,
			Start:    offsets[i],
			Duration: clip.EffectiveDuration(),
		})
	}
	for i, stage := range job.Stages {
		report.Stages = append(report.Stages, inspectStage{
			Index:  i,
			Kind:   stage.Kind.String(),
			Inputs: stage.Inputs,
			Chain:  stage.Chain(),
			Output: stage.Output,
		})
	}

	if outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	out := cmd.OutOrStdout()

	clipRows := make([][]string, 0, len(report.Clips))
	for _, c := range report.Clips {
		clipRows = append(clipRows, []string{
			c.Source,
			graph.FormatFloat(c.Start),
			graph.FormatFloat(c.Duration),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"SOURCE", "START", "DURATION"},
		clipRows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	))

	stageRows := make([][]string, 0, len(report.Stages))
	for _, s := range report.Stages {
		stageRows = append(stageRows, []string{
			strconv.Itoa(s.Index),
			s.Kind,
			strings.Join(s.Inputs, " "),
			s.Chain,
			s.Output,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "KIND", "INPUTS", "CHAIN", "OUTPUT"},
		stageRows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	))
	return nil
}
